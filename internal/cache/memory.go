package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryEntries bounds the in-process cache when no size is configured.
const DefaultMemoryEntries = 256

type memoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory returns an in-process cache used when Redis is not configured.
// It keeps at most maxEntries values, evicting the least recently used, and
// drops entries older than ttl (a zero ttl disables expiry). Values are
// stored JSON-encoded, as in Redis.
func NewMemory(maxEntries int, ttl time.Duration) DashboardCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &memoryCache{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	c.lru.Add(key, raw)
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, datasetID string) error {
	marker := ":" + datasetID + ":"
	for _, key := range c.lru.Keys() {
		if strings.Contains(key, marker) {
			c.lru.Remove(key)
		}
	}
	return nil
}
