package testutil

import (
	"context"
	"sync"

	"3tcapital/ms_namqr_core/internal/core/vault"
)

// MemoryVault is an in-memory vault.Repository for tests.
type MemoryVault struct {
	mu      sync.Mutex
	entries map[string]vault.Entry

	// StoreErr and RetrieveErr, when set, are returned by every call to
	// simulate an unreachable vault.
	StoreErr    error
	RetrieveErr error
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{entries: make(map[string]vault.Entry)}
}

// Store saves the entry under its token id.
func (v *MemoryVault) Store(_ context.Context, entry vault.Entry) error {
	if v.StoreErr != nil {
		return v.StoreErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[entry.TokenID] = entry
	return nil
}

// Retrieve returns the stored entry or vault.ErrNotFound.
func (v *MemoryVault) Retrieve(_ context.Context, tokenID string) (vault.Entry, error) {
	if v.RetrieveErr != nil {
		return vault.Entry{}, v.RetrieveErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.entries[tokenID]
	if !ok {
		return vault.Entry{}, vault.ErrNotFound
	}
	return entry, nil
}

// Len reports how many entries are stored.
func (v *MemoryVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}
