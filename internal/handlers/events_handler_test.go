package handlers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shubamdev/enquiry-gateway/internal/broker"
	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// syncBuffer guards the stream output against the writer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type failingSubscriber struct{}

func (failingSubscriber) Subscribe(ctx context.Context) (*broker.Subscription, error) {
	return nil, errors.New("redis down")
}

func setupEventsBroker(t *testing.T) (*miniredis.Miniredis, *broker.Broker) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	adapter, err := redis.NewAdapter(t.Name()+"-"+mr.Addr(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, broker.New(adapter, broker.EventName)
}

func TestEventsHandler_SubscribeFailure(t *testing.T) {
	handler := NewEventsHandler(failingSubscriber{})

	ctx := setupTestContext("GET", "/api/events", nil)
	handler.Stream(ctx)

	assert.Equal(t, 500, ctx.Response.StatusCode())
}

func TestEventsHandler_StreamDeliversEvents(t *testing.T) {
	mr, b := setupEventsBroker(t)
	handler := NewEventsHandler(b)

	ctx := setupTestContext("GET", "/api/events", nil)
	handler.Stream(ctx)

	assert.Equal(t, "text/event-stream", string(ctx.Response.Header.ContentType()))

	// drain the stream into a buffer; the writer returns once the
	// subscription channel closes
	buf := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- ctx.Response.BodyWriteTo(buf)
	}()

	// the subscription was live before Stream returned, so this publish
	// cannot race it
	pid := int64(7)
	require.NoError(t, b.Publish(context.Background(), broker.EventFromEnquiry(&model.Enquiry{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "9876543210",
		ProjectID:    &pid,
		ProjectTitle: "Green Valley",
	})))

	// wait for the frame to land, then tear down redis to end the stream
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "event: newEnquiry")
	}, 2*time.Second, 20*time.Millisecond)
	mr.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not terminate after redis shutdown")
	}

	out := buf.String()
	assert.Contains(t, out, "event: newEnquiry")
	assert.Contains(t, out, `"fullName":"Jane Doe"`)
	assert.Contains(t, out, `"project":{"id":7,"title":"Green Valley"}`)
}

func TestEventsHandler_Headers(t *testing.T) {
	_, b := setupEventsBroker(t)
	handler := NewEventsHandler(b)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod("GET")
	ctx.Request.SetRequestURI("/api/events")
	handler.Stream(ctx)

	assert.Equal(t, "no-cache", string(ctx.Response.Header.Peek("Cache-Control")))
	assert.Equal(t, "no", string(ctx.Response.Header.Peek("X-Accel-Buffering")))
}
