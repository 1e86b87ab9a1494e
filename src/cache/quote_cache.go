package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// -----------------------------------------------------------------------------
// Shared Quote Cache
// -----------------------------------------------------------------------------

// QuoteCache is a single-slot store for the most recently fetched quote.
// One instrument, no history, no eviction. Safe for concurrent readers
// while a writer overwrites the slot.
type QuoteCache struct {
	mu        sync.RWMutex
	quote     json.RawMessage
	fetchedAt time.Time
}

// -----------------------------------------------------------------------------

func NewQuoteCache() *QuoteCache {
	return &QuoteCache{}
}

// -----------------------------------------------------------------------------

// Set overwrites the slot with the given quote record.
func (c *QuoteCache) Set(quote json.RawMessage) {
	c.mu.Lock()
	c.quote = quote
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Get returns the current slot contents. ok is false when no quote has been
// cached yet.
func (c *QuoteCache) Get() (quote json.RawMessage, fetchedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.quote == nil {
		return nil, time.Time{}, false
	}
	return c.quote, c.fetchedAt, true
}
