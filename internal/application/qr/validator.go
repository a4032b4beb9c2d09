package qr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"3tcapital/ms_namqr_core/internal/core/namqr"
)

// Expectation carries the values a verifier expects the Token Vault to hold
// for a token. Empty fields are not compared.
type Expectation struct {
	Merchant string
	Amount   string
	Currency string
}

// VaultChecker is the external consistency collaborator. A false answer
// means the vault holds different parameters for the token; an error means
// the vault could not be consulted at all.
type VaultChecker interface {
	Check(ctx context.Context, tokenID string, expected Expectation) (bool, error)
}

// SignatureVerifier checks the signature carried by signed payloads against
// the signable slice of the payload.
type SignatureVerifier interface {
	Verify(payload, signatureHex string) (bool, error)
}

// ValidateOptions tune one validation run.
type ValidateOptions struct {
	// Now is the reference instant for expiry checks; zero means time.Now().
	Now time.Time
	// SkipVaultCheck disables layer (d) even when a checker is wired.
	SkipVaultCheck bool
	// VaultTimeout bounds the external consistency call.
	VaultTimeout time.Duration
}

// ValidateResult is the layered validation outcome. Errors block acceptance,
// warnings do not.
type ValidateResult struct {
	Accepted bool
	Errors   []string
	Warnings []string
	Record   *namqr.Record
}

// Validator runs the layered checks over a scanned payload: structural,
// field format, business rules, then the optional external consistency
// check. Each layer short-circuits on the previous one. The validator holds
// no mutable state and is safe for concurrent use.
type Validator struct {
	vault    VaultChecker
	verifier SignatureVerifier
	log      *slog.Logger
}

// NewValidator wires the optional collaborators. Either may be nil; the
// synchronous layers never depend on them.
func NewValidator(vault VaultChecker, verifier SignatureVerifier, log *slog.Logger) *Validator {
	return &Validator{vault: vault, verifier: verifier, log: log}
}

// Validate runs all layers over qrString.
func (v *Validator) Validate(ctx context.Context, qrString string, opts ValidateOptions) ValidateResult {
	// Layer (a): structural.
	parsed := Parse(qrString)
	result := ValidateResult{
		Errors:   append([]string(nil), parsed.Errors...),
		Warnings: append([]string(nil), parsed.Warnings...),
		Record:   parsed.Record,
	}
	if !parsed.Success {
		return result
	}
	rec := parsed.Record

	// Layer (b): field format.
	if errs := checkFieldFormats(rec); len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result
	}

	// Layer (c): business rules.
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	errs, warnings := v.checkBusinessRules(rec, qrString, now)
	result.Warnings = append(result.Warnings, warnings...)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result
	}

	// Layer (d): optional external consistency.
	if v.vault != nil && !opts.SkipVaultCheck {
		result.Errors, result.Warnings = v.checkVault(ctx, rec, opts, result.Errors, result.Warnings)
	}

	result.Accepted = len(result.Errors) == 0
	return result
}

func checkFieldFormats(rec *namqr.Record) []string {
	var errs []string

	if rec.PayloadFormat != namqr.FormatStandard && rec.PayloadFormat != namqr.FormatSigned {
		errs = append(errs, fmt.Sprintf("unknown payload format indicator %q", rec.PayloadFormat))
	}
	if !rec.PointOfInitiation.Valid() {
		errs = append(errs, fmt.Sprintf("point of initiation method %q is not one of 11, 12, 13, 14", rec.PointOfInitiation))
	}
	if !namqr.ValidMCC(rec.MerchantCategory) {
		errs = append(errs, fmt.Sprintf("merchant category code %q is not 4 digits", rec.MerchantCategory))
	}
	if !namqr.ValidCountryCode(rec.CountryCode) {
		errs = append(errs, fmt.Sprintf("country code %q is not 2 uppercase letters", rec.CountryCode))
	}
	if rec.Currency != "" && !namqr.ValidCurrency(rec.Currency) {
		errs = append(errs, fmt.Sprintf("currency %q is not a 3-digit code", rec.Currency))
	}
	if rec.Amount != "" && !namqr.ValidAmount(rec.Amount) {
		errs = append(errs, fmt.Sprintf("amount %q is not a positive decimal with at most 2 fraction digits", rec.Amount))
	}
	if !namqr.ValidTokenVaultID(rec.TokenVaultID) {
		errs = append(errs, fmt.Sprintf("token vault id %q is not 6 to 12 digits", rec.TokenVaultID))
	}
	for _, alias := range []*namqr.AliasTemplate{rec.PayeeAlias, rec.PayerAlias} {
		if alias != nil && !strings.Contains(alias.Alias, "@") {
			errs = append(errs, fmt.Sprintf("IPP alias %q does not contain '@'", alias.Alias))
		}
	}

	return errs
}

func (v *Validator) checkBusinessRules(rec *namqr.Record, qrString string, now time.Time) (errs, warnings []string) {
	// Expired dynamic codes are the one fatal business rule.
	if rec.PointOfInitiation.Dynamic() && rec.Transaction != nil {
		if expiry, ok := rec.Transaction.Expiry(); ok && now.After(expiry) {
			errs = append(errs, fmt.Sprintf("dynamic code expired at %s", rec.Transaction.ExpiresAt))
		}
	}

	if rec.MerchantCategory == namqr.MCCPersonToPerson && hasMerchantMetadata(rec) {
		warnings = append(warnings, "person-to-person code carries merchant-only metadata")
	}

	if rec.PointOfInitiation.PayerPresented() && hasPayeeDisplayFields(rec) {
		warnings = append(warnings, "payer-presented code carries payee display fields")
	}

	if rec.Mandate != nil {
		start, end, err := rec.Mandate.ValidityWindow()
		switch {
		case err != nil:
			errs = append(errs, "mandate validity dates malformed: "+err.Error())
		case end.Before(start):
			errs = append(errs, fmt.Sprintf("mandate validity end %s precedes start %s",
				rec.Mandate.ValidityEnd, rec.Mandate.ValidityStart))
		}
	}

	if rec.PayloadFormat == namqr.FormatSigned {
		switch {
		case rec.Signature == "":
			errs = append(errs, "signed payload format declared but no signature unit present")
		case v.verifier == nil:
			warnings = append(warnings, "signature present but no verifier configured")
		default:
			ok, err := v.verifier.Verify(namqr.SignablePayload(qrString), rec.Signature)
			if err != nil {
				warnings = append(warnings, "signature verifier unavailable: "+err.Error())
			} else if !ok {
				errs = append(errs, "digital signature verification failed")
			}
		}
	}

	return errs, warnings
}

// checkVault runs layer (d). A negative answer is an additional error; an
// unreachable vault degrades to a warning so offline validation of the
// synchronous layers stays authoritative.
func (v *Validator) checkVault(ctx context.Context, rec *namqr.Record, opts ValidateOptions, errs, warnings []string) ([]string, []string) {
	if opts.VaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.VaultTimeout)
		defer cancel()
	}

	expected := Expectation{
		Merchant: rec.PayeeName,
		Amount:   rec.Amount,
		Currency: rec.Currency,
	}
	ok, err := v.vault.Check(ctx, rec.TokenVaultID, expected)
	if err != nil {
		if v.log != nil {
			v.log.Warn("token vault unreachable, degrading to warning",
				"token_id", rec.TokenVaultID, "error", err)
		}
		return errs, append(warnings, "token vault check unresolved: "+err.Error())
	}
	if !ok {
		return append(errs, "token vault holds different parameters for this token"), warnings
	}
	return errs, warnings
}

func hasMerchantMetadata(rec *namqr.Record) bool {
	if rec.AdditionalData != nil && (rec.AdditionalData.StoreLabel != "" || rec.AdditionalData.TerminalLabel != "") {
		return true
	}
	if rec.Purpose != nil && (rec.Purpose.MerchantType != "" || rec.Purpose.MerchantGenre != "") {
		return true
	}
	return false
}

func hasPayeeDisplayFields(rec *namqr.Record) bool {
	return rec.AdditionalData != nil &&
		(rec.AdditionalData.StoreLabel != "" || rec.AdditionalData.TerminalLabel != "")
}
