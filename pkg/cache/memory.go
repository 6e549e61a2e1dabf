package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memoryEntry holds one cached value with its deadline.
type memoryEntry struct {
	value    interface{}
	expireAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expireAt)
}

// MemoryCache is an in-process Service with LRU eviction. Signal and feed
// responses live here for seconds, so eviction pressure stays low even on
// small MaxSize values.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*memoryEntry
	lastUsed map[string]time.Time
	maxSize  int
	janitor  *time.Ticker
}

// NewMemoryCache creates an in-memory cache and starts its expiry janitor.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		entries:  make(map[string]*memoryEntry),
		lastUsed: make(map[string]time.Time),
		maxSize:  cfg.MaxSize,
		janitor:  time.NewTicker(cfg.CleanupInterval),
	}

	go mc.reapExpired()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.entries) >= mc.maxSize {
		mc.evictOldest()
	}

	now := time.Now()
	if expiration <= 0 {
		// Callers always pass a TTL; cap the fallback so nothing lingers.
		expiration = time.Hour
	}

	mc.entries[key] = &memoryEntry{value: value, expireAt: now.Add(expiration)}
	mc.lastUsed[key] = now
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	entry, ok := mc.entries[key]
	if !ok || entry.expired(now) {
		if ok {
			delete(mc.entries, key)
			delete(mc.lastUsed, key)
		}
		return ErrCacheMiss
	}
	mc.lastUsed[key] = now

	switch d := dest.(type) {
	case *string:
		if s, ok := entry.value.(string); ok {
			*d = s
			return nil
		}
		return fmt.Errorf("cache: value for %q is not a string", key)
	case *interface{}:
		*d = entry.value
		return nil
	default:
		return fmt.Errorf("cache: unsupported destination %T", dest)
	}
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.entries, key)
		delete(mc.lastUsed, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	for _, key := range keys {
		if entry, ok := mc.entries[key]; ok && !entry.expired(now) {
			return true, nil
		}
	}
	return false, nil
}

// evictOldest drops the least recently used entry. Caller holds mc.mu.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, usedAt := range mc.lastUsed {
		if oldestKey == "" || usedAt.Before(oldestAt) {
			oldestKey, oldestAt = key, usedAt
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
		delete(mc.lastUsed, oldestKey)
	}
}

func (mc *MemoryCache) reapExpired() {
	for range mc.janitor.C {
		now := time.Now()
		mc.mu.Lock()
		for key, entry := range mc.entries {
			if entry.expired(now) {
				delete(mc.entries, key)
				delete(mc.lastUsed, key)
			}
		}
		mc.mu.Unlock()
	}
}

// Close stops the expiry janitor.
func (mc *MemoryCache) Close() error {
	if mc.janitor != nil {
		mc.janitor.Stop()
	}
	return nil
}
