package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Cache stores JSON-encoded values under string keys.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Memory is the in-process cache used when no redis is configured.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu sync.RWMutex
	m  map[string]memEntry
}

type memEntry struct {
	raw     []byte
	expires time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, m: map[string]memEntry{}}
}

func (c *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return false, nil
	}
	return true, json.Unmarshal(e.raw, dest)
}

func (c *Memory) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.m[key] = memEntry{raw: raw, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Memory) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	return nil
}
