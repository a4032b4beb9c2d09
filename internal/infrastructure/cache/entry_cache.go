// Package cache provides a small TTL cache for Token Vault lookups so
// repeated validations of the same static code do not hit the database.
package cache

import (
	"sync"
	"time"

	"3tcapital/ms_namqr_core/internal/core/vault"
)

type cachedEntry struct {
	entry     vault.Entry
	expiresAt time.Time
}

// EntryCache is a thread-safe TTL cache of vault entries keyed by token id.
type EntryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedEntry
	ttl     time.Duration
}

// NewEntryCache creates a cache whose entries live for ttl.
func NewEntryCache(ttl time.Duration) *EntryCache {
	return &EntryCache{
		entries: make(map[string]cachedEntry),
		ttl:     ttl,
	}
}

// Get returns the cached entry for tokenID if it has not expired.
func (c *EntryCache) Get(tokenID string) (vault.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.entries[tokenID]
	if !ok || time.Now().After(cached.expiresAt) {
		return vault.Entry{}, false
	}
	return cached.entry, true
}

// Set stores an entry under its token id.
func (c *EntryCache) Set(entry vault.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.TokenID] = cachedEntry{
		entry:     entry,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a token's cached entry.
func (c *EntryCache) Delete(tokenID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, tokenID)
}

// Purge drops every expired entry. Callers may run it periodically; the
// cache stays correct without it since Get checks expiry.
func (c *EntryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, cached := range c.entries {
		if now.After(cached.expiresAt) {
			delete(c.entries, id)
		}
	}
}
