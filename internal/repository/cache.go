package repository

import (
	"context"
	"sync"
	"time"
)

// CacheRepository - кэш рассчитанных планов. Движок детерминирован, поэтому
// результат можно смело кэшировать по хэшу входных данных.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
}

type memoryCacheEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache - запасной вариант на случай, когда Redis не настроен
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryCacheEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = memoryCacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
