package emotion

import (
	"log/slog"
	"sync"
	"time"

	"github.com/saarthi-labs/saarthi/internal/models"
	"github.com/saarthi-labs/saarthi/internal/textutil"
)

const (
	DefaultCacheTTL     = 5 * time.Minute
	DefaultCacheMaxSize = 1000
)

type cacheEntry struct {
	result   models.ClassificationResult
	storedAt time.Time
}

// Cache memoizes classifier results for a short window so repeated
// identical messages do not hit the hosted endpoint twice. Expiry is lazy
// (checked on read); the size bound is best effort: on overflow only
// expired entries are swept, so the cache may briefly exceed the bound.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache(ttl time.Duration, maxSize int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultCacheMaxSize
	}
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(text string) (models.ClassificationResult, bool) {
	key := textutil.NormalizeKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return models.ClassificationResult{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return models.ClassificationResult{}, false
	}
	return entry.result, true
}

func (c *Cache) Put(text string, result models.ClassificationResult) {
	key := textutil.NormalizeKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.sweepExpiredLocked()
	}
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepExpiredLocked() {
	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, entry := range c.entries {
		if entry.storedAt.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("[EmotionCache] Swept expired entries",
			slog.Int("removed", removed),
			slog.Int("remaining", len(c.entries)))
	}
}
