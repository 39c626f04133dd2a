package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	sharedCache "github.com/davicafu/participantes/internal/shared/infra/platform/cache"
)

// DummyCache es una caché en un mapa, sin caducidad. Cuenta las lecturas que
// aciertan para que los tests comprueben el cache-aside.
type DummyCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	Hits    int
	Deleted []string
}

var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{values: make(map[string][]byte)}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	raw, ok := c.values[key]
	if ok {
		c.Hits++
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.values[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.values, key)
	c.Deleted = append(c.Deleted, key)
	c.mu.Unlock()
	return nil
}

func (c *DummyCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

func (c *DummyCache) Deletes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Deleted)
}
