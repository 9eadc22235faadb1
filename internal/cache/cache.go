// Package cache memoizes fully processed result lists per distinct
// query+page key, with TTL expiry and a bounded entry count. Everything
// lives in process memory; nothing survives a restart.
package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Aditya73singh/rcai/internal/types"
)

type entry struct {
	insertedAt time.Time
	comments   []types.Comment
}

type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry

	now func() time.Time
}

func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// Get returns the cached comments for key, or false when the key is
// absent or its entry has outlived the TTL. Expired entries are evicted
// on this lazy check.
func (c *Cache) Get(key string) ([]types.Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.comments, true
}

// Put stores comments under key with a fresh timestamp. At capacity the
// single oldest entry is evicted first.
func (c *Cache) Put(key string, comments []types.Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = entry{insertedAt: c.now(), comments: comments}
}

// evictOldest removes the entry with the smallest insertion timestamp.
// Linear scan: the cache is small by design.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.insertedAt.Before(oldest) {
			oldestKey = k
			oldest = e.insertedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key derives a deterministic cache key from the normalized request
// fields and the page number.
func Key(req types.SearchRequest, page int) string {
	fields := fmt.Sprintf("%s|%s|%s|%s|%d|%d|%d",
		strings.ToLower(req.Query), req.Mode, req.TimeWindow, req.SortBy,
		req.MinUpvotes, req.PageSize, page)
	h := sha256.Sum256([]byte(fields))
	return fmt.Sprintf("%x", h[:16])
}
