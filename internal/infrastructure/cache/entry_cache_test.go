package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"3tcapital/ms_namqr_core/internal/core/vault"
)

func TestEntryCache_GetSet(t *testing.T) {
	tests := []struct {
		name       string
		setupCache func() *EntryCache
		tokenID    string
		expectedOk bool
	}{
		{
			name:       "empty cache",
			setupCache: func() *EntryCache { return NewEntryCache(time.Hour) },
			tokenID:    "12345678",
			expectedOk: false,
		},
		{
			name: "cached entry",
			setupCache: func() *EntryCache {
				c := NewEntryCache(time.Hour)
				c.Set(vault.Entry{TokenID: "12345678", PayeeName: "John Doe"})
				return c
			},
			tokenID:    "12345678",
			expectedOk: true,
		},
		{
			name: "expired entry",
			setupCache: func() *EntryCache {
				c := NewEntryCache(-time.Minute)
				c.Set(vault.Entry{TokenID: "12345678"})
				return c
			},
			tokenID:    "12345678",
			expectedOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.setupCache()
			entry, ok := c.Get(tt.tokenID)

			if ok != tt.expectedOk {
				t.Errorf("expected ok=%v, got %v", tt.expectedOk, ok)
			}
			if ok && entry.TokenID != tt.tokenID {
				t.Errorf("expected token id %q, got %q", tt.tokenID, entry.TokenID)
			}
		})
	}
}

func TestEntryCache_Delete(t *testing.T) {
	c := NewEntryCache(time.Hour)
	c.Set(vault.Entry{TokenID: "12345678"})

	c.Delete("12345678")

	if _, ok := c.Get("12345678"); ok {
		t.Error("expected entry to be deleted")
	}
}

func TestEntryCache_Purge(t *testing.T) {
	c := NewEntryCache(-time.Minute)
	c.Set(vault.Entry{TokenID: "11111111"})
	c.Set(vault.Entry{TokenID: "22222222"})

	c.Purge()

	c.mu.RLock()
	remaining := len(c.entries)
	c.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("expected purge to drop all expired entries, %d left", remaining)
	}
}

func TestEntryCache_ConcurrentAccess(t *testing.T) {
	c := NewEntryCache(time.Hour)
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			tokenID := fmt.Sprintf("%08d", i)
			c.Set(vault.Entry{TokenID: tokenID})
			c.Get(tokenID)
			c.Purge()
		}(i)
	}
	wg.Wait()
}
