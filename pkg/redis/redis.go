package redis

import (
	"context"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

var Nil = goredis.Nil

type Options = goredis.UniversalOptions
type PubSub = goredis.PubSub

// Adapter is the slice of redis this service depends on: channel
// publish/subscribe for the enquiry fan-out, plus raw client access.
// Keys and channels are transparently prefixed.
type Adapter interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) *PubSub
	Client() goredis.UniversalClient
}

type adapter struct {
	prefix string
	conn   goredis.UniversalClient
}

var (
	mu        sync.RWMutex
	instances map[string]Adapter
)

// NewAdapter connects (or returns the already-connected adapter registered
// under connName) and verifies the connection with a ping.
func NewAdapter(connName, keysPrefix string, opts *Options) (Adapter, error) {
	mu.RLock()
	if a, ok := instances[connName]; ok {
		mu.RUnlock()
		return a, nil
	}
	mu.RUnlock()

	c := goredis.NewUniversalClient(opts)
	if cmd := c.Ping(context.Background()); cmd.Err() != nil {
		return nil, cmd.Err()
	}

	a := &adapter{conn: c, prefix: keysPrefix}

	mu.Lock()
	if instances == nil {
		instances = make(map[string]Adapter)
	}
	instances[connName] = a
	mu.Unlock()

	return a, nil
}

func (a *adapter) Publish(ctx context.Context, channel string, payload []byte) error {
	return a.conn.Publish(ctx, a.prefix+channel, payload).Err()
}

func (a *adapter) Subscribe(ctx context.Context, channel string) *PubSub {
	return a.conn.Subscribe(ctx, a.prefix+channel)
}

func (a *adapter) Client() goredis.UniversalClient {
	return a.conn
}
