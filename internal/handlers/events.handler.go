package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/shubamdev/enquiry-gateway/internal/broker"
	"github.com/shubamdev/enquiry-gateway/pkg/logger"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
)

// heartbeat keeps proxies from reaping an idle stream.
const heartbeatInterval = 25 * time.Second

type Subscriber interface {
	Subscribe(ctx context.Context) (*broker.Subscription, error)
}

type EventsHandler struct {
	broker Subscriber
}

func NewEventsHandler(b Subscriber) *EventsHandler {
	return &EventsHandler{broker: b}
}

func RegisterEventsRoutes(e *router.Group, h *EventsHandler) {
	e.GET("/events", h.Stream)
}

// Stream is the server-sent-events endpoint the admin dashboard holds open.
// Each enquiry arrives as one `event: newEnquiry` frame; there is no
// catch-up for events published before the client connected.
func (h *EventsHandler) Stream(ctx *xhttp.RequestCtx) {
	sub, err := h.broker.Subscribe(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}

	ctx.Response.Header.Set("Content-Type", "text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					logger.Warn("[events] dropping unencodable event", "error", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", broker.EventName, payload)
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}
