package auth

import (
	"sync"
	"time"
)

// TokenCache is a single-slot, process-wide cache for the last refresh
// envelope. Refresh replaces the slot wholesale; concurrent refreshes are
// last-write-wins. Expiry is not checked here — callers decide with
// Envelope.Valid at read time.
type TokenCache struct {
	mu          sync.RWMutex
	entry       *Envelope
	lastUpdated time.Time

	now func() time.Time // swappable in tests
}

// NewTokenCache creates an empty cache. Nothing survives a process restart.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Store overwrites the cached envelope and stamps the update time.
func (c *TokenCache) Store(env *Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = env
	c.lastUpdated = c.now()
}

// Load returns the cached envelope, or (nil, false) if nothing was ever stored.
func (c *TokenCache) Load() (*Envelope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry, c.entry != nil
}

// LastUpdated returns when the slot was last overwritten (zero if never).
func (c *TokenCache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}
