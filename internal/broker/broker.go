// Package broker is the publish/subscribe channel that pushes freshly
// persisted enquiries to every connected admin dashboard. It is
// fire-and-forget: no acknowledgment, no replay, no persistence of the
// stream. A subscriber only sees events published after it joined and
// relies on the initial list fetch for anything earlier.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/logger"
	"github.com/shubamdev/enquiry-gateway/pkg/redis"
)

// EventName is the event label carried on the wire to dashboards.
const EventName = "newEnquiry"

// Event is the denormalized record broadcast on every create, single or
// bulk. Project is null when the enquiry did not resolve to a known project.
type Event struct {
	FullName string            `json:"fullName"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Message  string            `json:"message"`
	Project  *model.ProjectRef `json:"project"`
}

func EventFromEnquiry(e *model.Enquiry) Event {
	ev := Event{
		FullName: e.FullName,
		Email:    e.Email,
		Phone:    e.Phone,
		Message:  e.Message,
	}
	if e.ProjectID != nil {
		ev.Project = &model.ProjectRef{ID: *e.ProjectID, Title: e.ProjectTitle}
	}
	return ev
}

type Broker struct {
	adapter redis.Adapter
	channel string
}

func New(adapter redis.Adapter, channel string) *Broker {
	if channel == "" {
		channel = EventName
	}
	return &Broker{adapter: adapter, channel: channel}
}

func (b *Broker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.adapter.Publish(ctx, b.channel, payload); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscription is an explicit handle on the channel. C delivers decoded
// events until Close is called; Close is idempotent and must run when the
// owning session ends.
type Subscription struct {
	C <-chan Event

	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		// done releases a forwarder blocked on an undrained C; closing
		// the pubsub alone would strand it mid-send
		close(s.done)
		_ = s.pubsub.Close()
	})
}

// Subscribe registers with the channel and returns once the subscription
// is live, so no event published afterwards can be missed.
func (b *Broker) Subscribe(ctx context.Context) (*Subscription, error) {
	ps := b.adapter.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	done := make(chan struct{})
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("[broker] dropping undecodable event", "error", err)
				continue
			}
			select {
			case out <- ev:
			case <-done:
				return
			}
		}
	}()

	return &Subscription{C: out, pubsub: ps, done: done}, nil
}
