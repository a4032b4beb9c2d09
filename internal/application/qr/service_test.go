package qr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"3tcapital/ms_namqr_core/internal/core/audit"
	"3tcapital/ms_namqr_core/internal/core/vault"
	"3tcapital/ms_namqr_core/internal/infrastructure/cache"
	"3tcapital/ms_namqr_core/internal/testutil"
)

// memoryAudit is an in-memory audit.Repository for tests.
type memoryAudit struct {
	mu        sync.Mutex
	decisions []audit.Decision
	saveErr   error
}

func (m *memoryAudit) Save(_ context.Context, d audit.Decision) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, d)
	return nil
}

func (m *memoryAudit) FindByCorrelationID(_ context.Context, correlationID string) ([]audit.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []audit.Decision
	for _, d := range m.decisions {
		if d.CorrelationID == correlationID {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestService(repo vault.Repository, auditRepo audit.Repository) *Service {
	return NewService(Options{
		VaultRepo: repo,
		Cache:     cache.NewEntryCache(time.Minute),
		AuditRepo: auditRepo,
		Logger:    testutil.NewNullLogger(),
	})
}

func TestServiceGenerateRegistersToken(t *testing.T) {
	repo := testutil.NewMemoryVault()
	svc := newTestService(repo, nil)

	payload, err := svc.Generate(context.Background(), NewP2PStatic("John Doe", "Windhoek", "a@b", "12345678"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	entry, err := repo.Retrieve(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("expected the token registered, got %v", err)
	}
	if entry.Payload != payload {
		t.Errorf("expected the issued payload stored, got %q", entry.Payload)
	}
	if entry.PayeeName != "John Doe" {
		t.Errorf("expected payee name stored, got %q", entry.PayeeName)
	}
}

func TestServiceGenerateSurvivesVaultOutage(t *testing.T) {
	repo := testutil.NewMemoryVault()
	repo.StoreErr = errors.New("connection refused")
	svc := newTestService(repo, nil)

	payload, err := svc.Generate(context.Background(), NewP2PStatic("John Doe", "Windhoek", "a@b", "12345678"))
	if err != nil {
		t.Fatalf("a vault outage must not gate generation: %v", err)
	}
	if payload == "" {
		t.Fatal("expected a payload despite the vault outage")
	}
}

func TestServiceLookupCaches(t *testing.T) {
	repo := testutil.NewMemoryVault()
	svc := newTestService(repo, nil)

	ctx := context.Background()
	if _, err := svc.Generate(ctx, NewP2PStatic("John Doe", "Windhoek", "a@b", "12345678")); err != nil {
		t.Fatalf("generate: %v", err)
	}

	entry, err := svc.Lookup(ctx, "12345678")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry.TokenID != "12345678" {
		t.Errorf("expected the stored entry, got %+v", entry)
	}

	// A repository outage after the first lookup is invisible to cached reads.
	repo.RetrieveErr = errors.New("connection refused")
	if _, err := svc.Lookup(ctx, "12345678"); err != nil {
		t.Errorf("expected a cache hit, got %v", err)
	}
	if _, err := svc.Lookup(ctx, "99999999"); err == nil {
		t.Error("expected an error for an uncached token during an outage")
	}
}

func TestServiceLookupUnknownToken(t *testing.T) {
	svc := newTestService(testutil.NewMemoryVault(), nil)

	_, err := svc.Lookup(context.Background(), "00000000")
	if !errors.Is(err, vault.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceLookupWithoutVault(t *testing.T) {
	svc := NewService(Options{Logger: testutil.NewNullLogger()})

	if _, err := svc.Lookup(context.Background(), "12345678"); err == nil {
		t.Fatal("expected an error when no vault is configured")
	}
}

func TestServiceValidateRecordsDecision(t *testing.T) {
	repo := testutil.NewMemoryVault()
	auditRepo := &memoryAudit{}
	svc := newTestService(repo, auditRepo)

	ctx := context.Background()
	payload, err := svc.Generate(ctx, NewP2PStatic("John Doe", "Windhoek", "a@b", "12345678"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	res := svc.Validate(ctx, payload, ValidateOptions{})
	if !res.Accepted {
		t.Fatalf("expected acceptance, errors: %v", res.Errors)
	}

	if len(auditRepo.decisions) != 1 {
		t.Fatalf("expected one recorded decision, got %d", len(auditRepo.decisions))
	}
	d := auditRepo.decisions[0]
	if !d.Accepted || d.TokenVaultID != "12345678" || d.PayloadLength != len(payload) {
		t.Errorf("unexpected decision: %+v", d)
	}
}

func TestServiceValidateSurvivesAuditOutage(t *testing.T) {
	svc := newTestService(testutil.NewMemoryVault(), &memoryAudit{saveErr: errors.New("disk full")})

	ctx := context.Background()
	payload, err := svc.Generate(ctx, NewP2PStatic("John Doe", "Windhoek", "a@b", "12345678"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res := svc.Validate(ctx, payload, ValidateOptions{}); !res.Accepted {
		t.Fatalf("an audit outage must not change the decision, errors: %v", res.Errors)
	}
}

func TestServiceValidateConsultsVault(t *testing.T) {
	repo := testutil.NewMemoryVault()
	svc := newTestService(repo, nil)

	ctx := context.Background()
	payload, err := svc.Generate(ctx, NewMerchantDynamic("Shoprite", "Windhoek", "5411", "shop@fnb", "87654321", 99.12, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Run("matching entry accepts", func(t *testing.T) {
		res := svc.Validate(ctx, payload, ValidateOptions{})
		if !res.Accepted {
			t.Fatalf("expected acceptance, errors: %v", res.Errors)
		}
	})

	t.Run("unknown token rejects", func(t *testing.T) {
		unknownSvc := newTestService(testutil.NewMemoryVault(), nil)
		res := unknownSvc.Validate(ctx, payload, ValidateOptions{})
		if res.Accepted {
			t.Fatal("a token absent from the vault must be rejected")
		}
	})

	t.Run("mismatched merchant rejects", func(t *testing.T) {
		other := testutil.NewMemoryVault()
		if err := other.Store(ctx, vault.Entry{TokenID: "87654321", PayeeName: "Someone Else"}); err != nil {
			t.Fatalf("store: %v", err)
		}
		res := newTestService(other, nil).Validate(ctx, payload, ValidateOptions{})
		if res.Accepted {
			t.Fatal("a vault entry for a different merchant must be rejected")
		}
	})
}

func TestSameAmount(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"10", "10.00", true},
		{"99.12", "99.12", true},
		{"99.12", "99.13", false},
		{"0.5", "0.50", true},
		{"abc", "10", false},
	}
	for _, tt := range tests {
		if got := sameAmount(tt.a, tt.b); got != tt.want {
			t.Errorf("sameAmount(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
