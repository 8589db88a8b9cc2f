package main

import (
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SendMailRequest mirrors the JSON the gateway posts for every enquiry
// notification.
type SendMailRequest struct {
	FromName string `json:"fromName"`
	FromAddr string `json:"fromAddr" binding:"required"`
	To       string `json:"to" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	HTML     string `json:"html"`
}

type SendMailResponse struct {
	MailID      string    `json:"mail_id"`
	Status      string    `json:"status"`
	SinkID      string    `json:"sink_id"`
	ProcessedAt time.Time `json:"processed_at"`
	ErrorMsg    string    `json:"error_msg,omitempty"`
}

type StoredMail struct {
	MailID     string    `json:"mail_id"`
	FromName   string    `json:"fromName"`
	FromAddr   string    `json:"fromAddr"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	ReceivedAt time.Time `json:"received_at"`
}

// MailSink pretends to be the mail provider: it accepts deliveries, keeps
// them in memory for inspection, and fails a configurable fraction so the
// gateway's saved-but-not-emailed path can be exercised locally.
type MailSink struct {
	mu          sync.Mutex
	mails       []StoredMail
	deliverRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	sinkID      string
	rng         *rand.Rand
}

func NewMailSink(deliverRate float64, minDelay, maxDelay time.Duration) *MailSink {
	return &MailSink{
		deliverRate: deliverRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		sinkID:      "MAILSINK_" + uuid.New().String()[:8],
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MailSink) accept(req *SendMailRequest) *SendMailResponse {
	time.Sleep(m.randomDelay())

	response := &SendMailResponse{
		MailID:      uuid.New().String(),
		SinkID:      m.sinkID,
		ProcessedAt: time.Now(),
	}

	if m.rng.Float64() >= m.deliverRate {
		response.Status = "FAILED"
		response.ErrorMsg = "simulated provider outage"

		log.Warn().
			Str("mail_id", response.MailID).
			Str("to", req.To).
			Str("subject", req.Subject).
			Msg("Mail delivery failed")
		return response
	}

	m.mu.Lock()
	m.mails = append(m.mails, StoredMail{
		MailID:     response.MailID,
		FromName:   req.FromName,
		FromAddr:   req.FromAddr,
		To:         req.To,
		Subject:    req.Subject,
		HTML:       req.HTML,
		ReceivedAt: time.Now(),
	})
	m.mu.Unlock()

	response.Status = "DELIVERED"
	log.Info().
		Str("mail_id", response.MailID).
		Str("from", req.FromAddr).
		Str("to", req.To).
		Str("subject", req.Subject).
		Msg("Mail delivered")
	return response
}

func (m *MailSink) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int63n(int64(m.maxDelay-m.minDelay)))
}

func (m *MailSink) stored() []StoredMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredMail, len(m.mails))
	copy(out, m.mails)
	return out
}

func (m *MailSink) clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.mails)
	m.mails = nil
	return n
}

type Handler struct {
	sink *MailSink
}

func NewHandler(sink *MailSink) *Handler {
	return &Handler{sink: sink}
}

func (h *Handler) SendMail(c *gin.Context) {
	var req SendMailRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	response := h.sink.accept(&req)

	statusCode := http.StatusOK
	if response.Status == "FAILED" {
		statusCode = http.StatusBadGateway
	}
	c.JSON(statusCode, response)
}

func (h *Handler) ListMails(c *gin.Context) {
	mails := h.sink.stored()
	c.JSON(http.StatusOK, gin.H{
		"total": len(mails),
		"mails": mails,
	})
}

func (h *Handler) ClearMails(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cleared": h.sink.clear()})
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeliverRate *float64 `json:"deliver_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeliverRate != nil && *config.DeliverRate >= 0 && *config.DeliverRate <= 1.0 {
		h.sink.deliverRate = *config.DeliverRate
		log.Info().Float64("rate", *config.DeliverRate).Msg("Updated deliver rate")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Configuration updated",
		"deliver_rate": h.sink.deliverRate,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sink_id":   h.sink.sinkID,
		"timestamp": time.Now(),
		"stored":    len(h.sink.stored()),
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})

	router.POST("/mail/send", handler.SendMail)
	router.GET("/mail", handler.ListMails)
	router.DELETE("/mail", handler.ClearMails)
	router.PUT("/config", handler.UpdateConfig)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	deliverRate := getEnvFloat("DELIVER_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 300*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("deliver_rate", deliverRate).
		Msg("Starting mail sink")

	sink := NewMailSink(deliverRate, minDelay, maxDelay)
	handler := NewHandler(sink)
	router := SetupRouter(handler)

	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("mail sink stopped")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
