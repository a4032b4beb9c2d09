package qr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"3tcapital/ms_namqr_core/internal/core/audit"
	"3tcapital/ms_namqr_core/internal/core/vault"
	"3tcapital/ms_namqr_core/internal/infrastructure/cache"
	ctxutil "3tcapital/ms_namqr_core/internal/infrastructure/context"
)

// Service orchestrates the codec use cases around their collaborators:
// Token Vault persistence, lookup caching and the validation audit trail.
// Vault registration and audit writes are best-effort; the codec's own
// results never depend on them.
type Service struct {
	vaultRepo vault.Repository
	cache     *cache.EntryCache
	auditRepo audit.Repository
	validator *Validator
	log       *slog.Logger
}

// Options collects the Service collaborators. VaultRepo and AuditRepo may
// be nil when the service runs without a database.
type Options struct {
	VaultRepo vault.Repository
	Cache     *cache.EntryCache
	AuditRepo audit.Repository
	Verifier  SignatureVerifier
	Logger    *slog.Logger
}

// NewService wires a Service. The validator's vault checker is backed by
// the same repository and cache the lookup path uses.
func NewService(opts Options) *Service {
	s := &Service{
		vaultRepo: opts.VaultRepo,
		cache:     opts.Cache,
		auditRepo: opts.AuditRepo,
		log:       opts.Logger,
	}

	var checker VaultChecker
	if opts.VaultRepo != nil {
		checker = &repositoryChecker{repo: opts.VaultRepo, cache: opts.Cache}
	}
	s.validator = NewValidator(checker, opts.Verifier, opts.Logger)
	return s
}

// Generate produces the payload string for a request and registers the
// token with the vault best-effort. A vault failure is logged and never
// rolls back or gates generation.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	qrString, err := Generate(req)
	if err != nil {
		return "", err
	}

	s.registerToken(ctx, req, qrString)
	return qrString, nil
}

// Parse decodes a scanned payload string.
func (s *Service) Parse(qrString string) ParseResult {
	return Parse(qrString)
}

// Validate runs the layered validator and records the decision in the
// audit trail best-effort.
func (s *Service) Validate(ctx context.Context, qrString string, opts ValidateOptions) ValidateResult {
	result := s.validator.Validate(ctx, qrString, opts)

	if s.auditRepo != nil {
		decision := audit.Decision{
			ID:            uuid.NewString(),
			CorrelationID: ctxutil.GetCorrelationID(ctx),
			Accepted:      result.Accepted,
			ErrorCount:    len(result.Errors),
			WarningCount:  len(result.Warnings),
			PayloadLength: len(qrString),
			CreatedAt:     time.Now(),
		}
		if result.Record != nil {
			decision.TokenVaultID = result.Record.TokenVaultID
		}
		if err := s.auditRepo.Save(ctx, decision); err != nil && s.log != nil {
			s.log.Warn("failed to record validation decision", "error", err,
				"correlation_id", decision.CorrelationID)
		}
	}

	return result
}

// Lookup retrieves the vault entry for a token, serving repeat lookups from
// the TTL cache.
func (s *Service) Lookup(ctx context.Context, tokenID string) (vault.Entry, error) {
	if s.vaultRepo == nil {
		return vault.Entry{}, fmt.Errorf("token vault not configured")
	}

	if s.cache != nil {
		if entry, ok := s.cache.Get(tokenID); ok {
			return entry, nil
		}
	}

	entry, err := s.vaultRepo.Retrieve(ctx, tokenID)
	if err != nil {
		return vault.Entry{}, err
	}

	if s.cache != nil {
		s.cache.Set(entry)
	}
	return entry, nil
}

func (s *Service) registerToken(ctx context.Context, req Request, qrString string) {
	if s.vaultRepo == nil {
		return
	}

	entry := vault.Entry{
		TokenID:          req.TokenVaultID,
		PayeeName:        req.PayeeName,
		PayeeCity:        req.PayeeCity,
		MerchantCategory: req.MerchantCategory,
		Currency:         req.Currency,
		Alias:            req.IPPAlias,
		Payload:          qrString,
		CreatedAt:        time.Now(),
	}
	if req.Amount > 0 {
		entry.Amount = fmt.Sprintf("%.2f", req.Amount)
	}

	if err := s.vaultRepo.Store(ctx, entry); err != nil {
		if s.log != nil {
			s.log.Warn("token vault registration failed, payload still issued",
				"token_id", req.TokenVaultID, "error", err)
		}
		return
	}
	if s.cache != nil {
		s.cache.Set(entry)
	}
}

// repositoryChecker implements VaultChecker over the persistence layer,
// comparing the stored entry against non-empty expected values.
type repositoryChecker struct {
	repo  vault.Repository
	cache *cache.EntryCache
}

func (c *repositoryChecker) Check(ctx context.Context, tokenID string, expected Expectation) (bool, error) {
	var entry vault.Entry
	if c.cache != nil {
		if cached, ok := c.cache.Get(tokenID); ok {
			entry = cached
		}
	}
	if entry.TokenID == "" {
		retrieved, err := c.repo.Retrieve(ctx, tokenID)
		if errors.Is(err, vault.ErrNotFound) {
			// An unknown token is a negative answer, not an outage.
			return false, nil
		}
		if err != nil {
			return false, err
		}
		entry = retrieved
		if c.cache != nil {
			c.cache.Set(entry)
		}
	}

	if expected.Merchant != "" && entry.PayeeName != expected.Merchant {
		return false, nil
	}
	if expected.Amount != "" && entry.Amount != "" && !sameAmount(entry.Amount, expected.Amount) {
		return false, nil
	}
	if expected.Currency != "" && entry.Currency != "" && entry.Currency != expected.Currency {
		return false, nil
	}
	return true, nil
}

// sameAmount compares wire amounts numerically so "10" and "10.00" match.
func sameAmount(a, b string) bool {
	if a == b {
		return true
	}
	var fa, fb float64
	if _, err := fmt.Sscanf(a, "%f", &fa); err != nil {
		return false
	}
	if _, err := fmt.Sscanf(b, "%f", &fb); err != nil {
		return false
	}
	return fa == fb
}
