package metadata

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Cache holds successful lookups keyed by normalized ISBN. Failed lookups
// are never stored.
type Cache interface {
	Get(isbn string) (*BookRecord, bool)
	Put(isbn string, record *BookRecord)
	Len() int
	// Prune drops expired entries and returns how many were removed.
	Prune() int
}

type cacheEntry struct {
	record   *BookRecord
	storedAt time.Time
}

// MemoryCache is a concurrent in-process Cache. With a zero TTL entries never
// expire; with zero MaxEntries the cache is unbounded.
type MemoryCache struct {
	entries    *xsync.MapOf[string, cacheEntry]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type CacheOptions struct {
	TTL        time.Duration
	MaxEntries int
}

func NewMemoryCache(opts CacheOptions) *MemoryCache {
	return &MemoryCache{
		entries:    xsync.NewMapOf[string, cacheEntry](),
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(isbn string) (*BookRecord, bool) {
	entry, ok := c.entries.Load(isbn)
	if !ok {
		return nil, false
	}
	if c.expired(entry) {
		c.entries.Delete(isbn)
		return nil, false
	}
	return entry.record, true
}

func (c *MemoryCache) Put(isbn string, record *BookRecord) {
	if record == nil {
		return
	}
	if c.maxEntries > 0 {
		if _, exists := c.entries.Load(isbn); !exists && c.entries.Size() >= c.maxEntries {
			c.Prune()
			if c.entries.Size() >= c.maxEntries {
				c.evictOldest()
			}
		}
	}
	c.entries.Store(isbn, cacheEntry{record: record, storedAt: c.now()})
}

func (c *MemoryCache) Len() int {
	return c.entries.Size()
}

func (c *MemoryCache) Prune() int {
	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	c.entries.Range(func(isbn string, entry cacheEntry) bool {
		if c.expired(entry) {
			c.entries.Delete(isbn)
			removed++
		}
		return true
	})
	return removed
}

func (c *MemoryCache) expired(entry cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl
}

func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	c.entries.Range(func(isbn string, entry cacheEntry) bool {
		if !found || entry.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = isbn, entry.storedAt, true
		}
		return true
	})
	if found {
		c.entries.Delete(oldestKey)
	}
}
