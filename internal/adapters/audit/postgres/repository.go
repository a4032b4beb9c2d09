package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"3tcapital/ms_namqr_core/internal/core/audit"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the audit.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL audit repository.
func NewRepository(pool *pgxpool.Pool) audit.Repository {
	return &Repository{pool: pool, log: nil}
}

// NewRepositoryWithLogger creates a new PostgreSQL audit repository with logging.
func NewRepositoryWithLogger(pool *pgxpool.Pool, log *slog.Logger) audit.Repository {
	return &Repository{pool: pool, log: log}
}

// Save persists a validation decision to the database.
func (r *Repository) Save(ctx context.Context, decision audit.Decision) error {
	query := `
		INSERT INTO validation_audit (
			id, correlation_id, token_vault_id, accepted,
			error_count, warning_count, payload_length, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		decision.ID,
		decision.CorrelationID,
		decision.TokenVaultID,
		decision.Accepted,
		decision.ErrorCount,
		decision.WarningCount,
		decision.PayloadLength,
		decision.CreatedAt,
	)
	if err != nil {
		errMsg := fmt.Errorf("insert validation decision: %w", err)
		if r.log != nil {
			r.log.Error("Failed to insert validation decision",
				"correlation_id", decision.CorrelationID,
				"token_vault_id", decision.TokenVaultID,
				"accepted", decision.Accepted,
				"error", errMsg,
			)
		}
		return errMsg
	}

	if r.log != nil {
		r.log.Debug("Validation decision saved",
			"correlation_id", decision.CorrelationID,
			"token_vault_id", decision.TokenVaultID,
			"accepted", decision.Accepted,
		)
	}
	return nil
}

// FindByCorrelationID retrieves all decisions recorded for a correlation ID.
func (r *Repository) FindByCorrelationID(ctx context.Context, correlationID string) ([]audit.Decision, error) {
	query := `
		SELECT id, correlation_id, token_vault_id, accepted,
		       error_count, warning_count, payload_length, created_at
		FROM validation_audit
		WHERE correlation_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("query validation decisions: %w", err)
	}
	defer rows.Close()

	var decisions []audit.Decision
	for rows.Next() {
		var d audit.Decision
		err := rows.Scan(
			&d.ID,
			&d.CorrelationID,
			&d.TokenVaultID,
			&d.Accepted,
			&d.ErrorCount,
			&d.WarningCount,
			&d.PayloadLength,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan validation decision: %w", err)
		}
		decisions = append(decisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return decisions, nil
}
