package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"3tcapital/ms_namqr_core/internal/core/vault"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the vault.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL token vault repository.
func NewRepository(pool *pgxpool.Pool) vault.Repository {
	return &Repository{pool: pool, log: nil}
}

// NewRepositoryWithLogger creates a new PostgreSQL token vault repository with logging.
func NewRepositoryWithLogger(pool *pgxpool.Pool, log *slog.Logger) vault.Repository {
	return &Repository{pool: pool, log: log}
}

// Store upserts the vault entry for a token. Reissuing a payload for an
// existing token replaces its stored parameters.
func (r *Repository) Store(ctx context.Context, entry vault.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid vault entry: %w", err)
	}

	query := `
		INSERT INTO token_vault (
			token_id, payee_name, payee_city, merchant_category,
			amount, currency, alias, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token_id) DO UPDATE SET
			payee_name = EXCLUDED.payee_name,
			payee_city = EXCLUDED.payee_city,
			merchant_category = EXCLUDED.merchant_category,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			alias = EXCLUDED.alias,
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at
	`

	_, err := r.pool.Exec(ctx, query,
		entry.TokenID,
		entry.PayeeName,
		entry.PayeeCity,
		entry.MerchantCategory,
		entry.Amount,
		entry.Currency,
		entry.Alias,
		entry.Payload,
		entry.CreatedAt,
	)
	if err != nil {
		errMsg := fmt.Errorf("insert vault entry: %w", err)
		if r.log != nil {
			r.log.Error("Failed to store token vault entry",
				"token_id", entry.TokenID,
				"error", errMsg,
			)
		}
		return errMsg
	}

	if r.log != nil {
		r.log.Debug("Token vault entry stored", "token_id", entry.TokenID)
	}
	return nil
}

// Retrieve loads the vault entry for a token. Returns vault.ErrNotFound when
// the token was never registered.
func (r *Repository) Retrieve(ctx context.Context, tokenID string) (vault.Entry, error) {
	query := `
		SELECT token_id, payee_name, payee_city, merchant_category,
		       amount, currency, alias, payload, created_at
		FROM token_vault
		WHERE token_id = $1
	`

	var entry vault.Entry
	err := r.pool.QueryRow(ctx, query, tokenID).Scan(
		&entry.TokenID,
		&entry.PayeeName,
		&entry.PayeeCity,
		&entry.MerchantCategory,
		&entry.Amount,
		&entry.Currency,
		&entry.Alias,
		&entry.Payload,
		&entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return vault.Entry{}, vault.ErrNotFound
	}
	if err != nil {
		return vault.Entry{}, fmt.Errorf("query vault entry: %w", err)
	}

	return entry, nil
}
