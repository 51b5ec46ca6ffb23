// Package cache holds extraction results for the time-to-live window so
// repeated requests for the same video skip the network entirely.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/awsaruna451/onetoolsbox-be/internal/caption"
)

type entry struct {
	set        *caption.Set
	insertedAt time.Time
}

// Cache is a mutex-guarded TTL map. Stale entries are evicted lazily on
// read; there is no background sweeper.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Fingerprint derives the cache key from the request parameters.
func Fingerprint(videoURL, outputFormat string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s", videoURL, outputFormat)))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached Set for the key, evicting it first when stale.
// Sets are immutable after creation, so sharing the pointer is safe.
func (c *Cache) Get(key string) (*caption.Set, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.set, true
}

func (c *Cache) Put(key string, set *caption.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{set: set, insertedAt: c.now()}
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of entries, counting stale ones not yet
// evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
