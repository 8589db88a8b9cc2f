package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shubamdev/enquiry-gateway/internal/broker"
	"github.com/shubamdev/enquiry-gateway/internal/config"
	"github.com/shubamdev/enquiry-gateway/internal/handlers"
	"github.com/shubamdev/enquiry-gateway/internal/mailer"
	"github.com/shubamdev/enquiry-gateway/internal/repository"
	"github.com/shubamdev/enquiry-gateway/internal/services"
	"github.com/shubamdev/enquiry-gateway/pkg/logger"
	"github.com/shubamdev/enquiry-gateway/pkg/pg"
	"github.com/shubamdev/enquiry-gateway/pkg/prom"
	"github.com/shubamdev/enquiry-gateway/pkg/redis"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	// the SSE stream outlives any per-response write deadline
	s.Server.WriteTimeout = 0
	s.Server.IdleTimeout = 0
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 10))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := config.Get().AppEnv == "dev"
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		if err := prom.Create(config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed registering metrics", "error", err)
			return
		}
		if config.Get().AppDebugMetricsAddr != "" {
			prom.ListenAndServe(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	eventBroker := broker.New(redisAdap, config.Get().EventChannel)

	var transport mailer.Transport
	if config.Get().MailProviderURL != "" {
		transport = mailer.NewProviderTransport(config.Get().MailProviderURL)
	} else {
		transport = mailer.NewSMTPTransport(mailer.SMTPConfig{
			Host:     config.Get().SmtpHost,
			Port:     config.Get().SmtpPort,
			Username: config.Get().SmtpUser,
			Password: config.Get().SmtpPassword,
		})
	}
	dispatcher := mailer.NewDispatcher(transport, config.Get().OperatorInbox)

	enquiryRepo := repository.NewEnquiryRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	viewRepo := repository.NewViewRepository(db)

	// services
	enquiryService := services.NewEnquiryService(enquiryRepo, projectRepo, dispatcher, eventBroker)
	viewService := services.NewViewService(viewRepo)
	healthService := services.NewHealthService(db, redisAdap)

	// handlers
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	excelHandler := handlers.NewExcelHandler(enquiryService)
	viewHandler := handlers.NewViewHandler(viewService)
	eventsHandler := handlers.NewEventsHandler(eventBroker)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api")
	handlers.RegisterEnquiryRoutes(g, enquiryHandler)
	handlers.RegisterExcelRoutes(g, excelHandler)
	handlers.RegisterViewRoutes(g, viewHandler)
	handlers.RegisterEventsRoutes(g, eventsHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(config.Get().HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
