package xhttp

import (
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/shubamdev/enquiry-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

// ServerOption carries the fasthttp knobs this service actually tunes.
// Anything not listed here keeps the fasthttp default.
type ServerOption struct {
	Handler            RequestHandler
	Name               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ReadBufferSize     int
	WriteBufferSize    int
	MaxRequestBodySize int
	Concurrency        int
	MaxConnsPerIP      int
	Logger             logger.Logger
}

var DefaultServerOption = ServerOption{
	Handler: func(ctx *RequestCtx) {
		ctx.Error(StatusText(StatusNotFound), StatusNotFound)
	},
	ReadTimeout:  time.Millisecond * 2500,
	WriteTimeout: time.Millisecond * 2500,
	IdleTimeout:  time.Second * 10,
	// also the max header size
	ReadBufferSize:  1024 * 4,
	WriteBufferSize: 1024 * 4,
	// xlsx uploads go through the preview endpoint, leave headroom
	MaxRequestBodySize: 16 * 1024 * 1024,
	Concurrency:        30_000,
	MaxConnsPerIP:      10_000,
}

type Engine struct {
	*Router
	*Server
	middle []MiddlewareFunc
}

type Server = fasthttp.Server

func NewServer(opt ServerOption) *Engine {
	if opt.Logger == nil {
		opt.Logger = logger.GetLogger()
	}
	return &Engine{
		Server: &fasthttp.Server{
			Handler:               opt.Handler,
			Name:                  opt.Name,
			ReadTimeout:           opt.ReadTimeout,
			WriteTimeout:          opt.WriteTimeout,
			IdleTimeout:           opt.IdleTimeout,
			ReadBufferSize:        opt.ReadBufferSize,
			WriteBufferSize:       opt.WriteBufferSize,
			MaxRequestBodySize:    opt.MaxRequestBodySize,
			Concurrency:           opt.Concurrency,
			MaxConnsPerIP:         opt.MaxConnsPerIP,
			NoDefaultServerHeader: true,
			NoDefaultContentType:  true,
			CloseOnShutdown:       true,
			// SSE responses are written incrementally
			StreamRequestBody: false,
			Logger:            opt.Logger,
		},
		Router: CreateDefaultRouter(),
	}
}

func CreateServer() *Engine {
	return NewServer(DefaultServerOption)
}

// Use appends middleware to the chain. The first registered middleware
// is the outermost one at serve time.
func (e *Engine) Use(m MiddlewareFunc) {
	e.middle = append(e.middle, m)
}

func (e *Engine) wire() {
	for method, routes := range e.Router.List() {
		for _, r := range routes {
			e.Server.Logger.Printf("[xhttp] method: %s, path: %s", method, r)
		}
	}
	e.Server.Handler = e.Router.Handler
	slices.Reverse(e.middle)
	for _, m := range e.middle {
		e.Server.Handler = m(e.Server.Handler)
	}
}

func (e *Engine) ListenAndServe(addr string) error {
	e.wire()
	e.Server.Logger.Printf("[xhttp] server is listening on %s", addr)
	return e.Server.ListenAndServe(addr)
}

func (e *Engine) CloseOnSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig
		e.Shutdown()
	}()
}

// Shutdown gracefully stops the server without interrupting active
// connections. Long-lived SSE streams are closed by CloseOnShutdown.
func (e *Engine) Shutdown() {
	e.Server.Logger.Printf("[xhttp] server is shutting down, process id: %d", os.Getpid())
	if err := e.Server.Shutdown(); err != nil {
		e.Server.Logger.Printf("[xhttp] error while shutting down: %v", err)
	}
}
