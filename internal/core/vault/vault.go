// Package vault defines the Token Vault domain: the record subset stored
// against the short token identifier embedded in every NAMQR payload, used
// for out-of-band verification of scanned codes.
package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"3tcapital/ms_namqr_core/internal/core/namqr"
)

// ErrNotFound is returned when no entry exists for a token identifier.
var ErrNotFound = errors.New("vault: token not found")

// Entry is the record subset the vault keeps per token. It mirrors the
// fields a verifier needs to cross-check a scanned payload, not the full
// payload semantics.
type Entry struct {
	TokenID          string
	PayeeName        string
	PayeeCity        string
	MerchantCategory string
	Amount           string
	Currency         string
	Alias            string
	Payload          string
	CreatedAt        time.Time
}

// Validate checks the entry before persistence.
func (e Entry) Validate() error {
	if !namqr.ValidTokenVaultID(e.TokenID) {
		return fmt.Errorf("token id must be 6 to 12 digits, got %q", e.TokenID)
	}
	if e.PayeeName == "" {
		return errors.New("payee name is required")
	}
	if e.Payload == "" {
		return errors.New("payload is required")
	}
	return nil
}

// Repository is the persistence boundary for vault entries. Implementations
// must treat Store as idempotent per token identifier.
type Repository interface {
	Store(ctx context.Context, entry Entry) error
	Retrieve(ctx context.Context, tokenID string) (Entry, error)
}
