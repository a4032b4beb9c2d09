// Package audit defines the validation audit trail: one entry per validate
// decision, persisted best-effort so a failing audit sink can never block
// acceptance or rejection of a payment code.
package audit

import (
	"context"
	"time"
)

// Decision records the outcome of one validation run.
type Decision struct {
	ID            string
	CorrelationID string
	TokenVaultID  string
	Accepted      bool
	ErrorCount    int
	WarningCount  int
	PayloadLength int
	CreatedAt     time.Time
}

// Repository defines the contract for persisting and retrieving validation
// decisions.
type Repository interface {
	// Save persists one decision.
	Save(ctx context.Context, decision Decision) error

	// FindByCorrelationID retrieves the decisions recorded for a request.
	FindByCorrelationID(ctx context.Context, correlationID string) ([]Decision, error)
}
