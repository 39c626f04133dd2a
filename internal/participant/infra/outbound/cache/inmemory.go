package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	sharedCache "github.com/davicafu/participantes/internal/shared/infra/platform/cache"
)

type entry struct {
	payload  []byte
	deadline time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.deadline)
}

// InMemoryCache es la caché del listado cuando no hay Redis. Las entradas
// caducadas se descartan al leerlas y en un barrido periódico.
type InMemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	cancel  context.CancelFunc
}

var _ sharedCache.Cache = (*InMemoryCache)(nil)

func NewInMemoryCache(ttl, sweepEvery time.Duration) *InMemoryCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		cancel:  cancel,
	}
	if sweepEvery > 0 {
		go c.sweep(ctx, sweepEvery)
	}
	return c
}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.expired(c.now()) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	c.entries[key] = entry{payload: payload, deadline: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Stop detiene el barrido. Se puede llamar más de una vez.
func (c *InMemoryCache) Stop() {
	c.cancel()
}

func (c *InMemoryCache) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, e := range c.entries {
				if e.expired(now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
