package dataset

import (
	"sync"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Entry is a cached parse result.
type Entry struct {
	Records   []domain.WasteRecord
	ExpiresAt time.Time
}

// Cache stores parsed datasets keyed by resource path.
type Cache interface {
	// Get returns the live entry for key. Expired entries are reported missing.
	Get(key string) (Entry, bool)
	// Put stores records for key until expiresAt.
	Put(key string, records []domain.WasteRecord, expiresAt time.Time)
}

// TTLCache is a thread-safe Cache holding one entry per key. Entries are
// dropped by age only; there is no size bound.
type TTLCache struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]Entry
}

// NewTTLCache creates an empty cache that reads time from clock.
// A nil clock uses the real clock.
func NewTTLCache(clock clockwork.Clock) *TTLCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TTLCache{
		clock:   clock,
		entries: make(map[string]Entry),
	}
}

func (c *TTLCache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if !c.clock.Now().Before(e.ExpiresAt) {
		delete(c.entries, key)
		return Entry{}, false
	}
	return e, true
}

func (c *TTLCache) Put(key string, records []domain.WasteRecord, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Records: records, ExpiresAt: expiresAt}
}

// Len reports the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
