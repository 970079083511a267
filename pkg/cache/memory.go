package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache with per-entry TTL and a background
// sweeper for expired entries.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	defaultTTL time.Duration
	maxEntries int

	hits   int64
	misses int64

	closed  bool
	stopCh  chan struct{}
	stopped sync.Once
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	c := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxEntries: opts.MaxEntries,
		stopCh:     make(chan struct{}),
	}

	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	go c.janitor(interval)

	return c
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	entry, ok := c.entries[key]
	if !ok || entry.expired(time.Now()) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, ErrKeyNotFound
	}

	c.hits++
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.evictOne()
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.entries[key] = &memoryEntry{value: stored, expiresAt: expiresAt}
	return nil
}

// evictOne removes an expired entry if one exists, otherwise the entry
// closest to expiry. Caller holds the lock.
func (c *MemoryCache) evictOne() {
	now := time.Now()
	var victim string
	var victimExpiry time.Time

	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
			return
		}
		if victim == "" || (!entry.expiresAt.IsZero() && entry.expiresAt.Before(victimExpiry)) {
			victim = key
			victimExpiry = entry.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false, ErrCacheClosed
	}

	entry, ok := c.entries[key]
	if !ok || entry.expired(time.Now()) {
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) Stats(ctx context.Context) (*Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return &Stats{
		TotalKeys: int64(len(c.entries)),
		Hits:      c.hits,
		Misses:    c.misses,
		HitRate:   hitRate,
		Backend:   BackendMemory,
	}, nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	c.entries = make(map[string]*memoryEntry)
	return nil
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.stopped.Do(func() {
		close(c.stopCh)
	})
	return nil
}
