package namqr

import (
	"testing"
	"time"

	"3tcapital/ms_namqr_core/internal/core/tlv"
)

func TestAliasTemplateRoundTrip(t *testing.T) {
	original := AliasTemplate{
		GUI:           "na.ipp",
		Alias:         "264812345678@buffr",
		OrgID:         "ORG001",
		MinimumAmount: "5",
	}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, ok := DecodeAlias(tlv.DecodeNested(encoded))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if decoded != original {
		t.Errorf("expected %+v, got %+v", original, decoded)
	}
}

func TestDecodeAliasMissingMandatory(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]string
	}{
		{name: "no alias", m: map[string]string{"00": "na.ipp"}},
		{name: "no gui", m: map[string]string{"01": "x@y"}},
		{name: "empty map", m: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DecodeAlias(tt.m); ok {
				t.Error("expected decode to report false")
			}
		})
	}
}

func TestLegacyAliasRoundTrip(t *testing.T) {
	original := LegacyAlias{GUI: "na.eps", AccountID: "08100012345"}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, ok := DecodeLegacyAlias(tlv.DecodeNested(encoded))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if decoded != original {
		t.Errorf("expected %+v, got %+v", original, decoded)
	}
}

func TestAdditionalDataRoundTrip(t *testing.T) {
	original := AdditionalData{
		BillNumber:     "INV-2026-001",
		MobileNumber:   "264811111111",
		StoreLabel:     "Main Branch",
		ReferenceLabel: "REF42",
		TerminalLabel:  "T01",
		Description:    "groceries",
	}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, ok := DecodeAdditionalData(tlv.DecodeNested(encoded))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if decoded != original {
		t.Errorf("expected %+v, got %+v", original, decoded)
	}
}

func TestAdditionalDataEmpty(t *testing.T) {
	d := AdditionalData{}
	if !d.Empty() {
		t.Error("expected zero value to be empty")
	}

	encoded, err := d.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded != "" {
		t.Errorf("expected empty encoding, got %q", encoded)
	}

	if _, ok := DecodeAdditionalData(map[string]string{}); ok {
		t.Error("expected decode of empty map to report false")
	}
}

func TestPurposeInfoRoundTrip(t *testing.T) {
	original := PurposeInfo{
		InitiationMode: InitiationDynamic,
		PurposeCode:    PurposeMerchantPayment,
		MerchantType:   "RETAIL",
		MerchantGenre:  "SUPERMARKET",
	}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, ok := DecodePurposeInfo(tlv.DecodeNested(encoded))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if decoded != original {
		t.Errorf("expected %+v, got %+v", original, decoded)
	}
}

func TestDecodePurposeInfoMissingCode(t *testing.T) {
	if _, ok := DecodePurposeInfo(map[string]string{"01": InitiationStatic}); ok {
		t.Error("expected decode without purpose code to report false")
	}
}

func TestTransactionInfoRoundTrip(t *testing.T) {
	expiry := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
	original := TransactionInfo{
		TransactionID: "c0ffee00-0000-4000-8000-000000000001",
		ExpiresAt:     FormatTimestamp(expiry),
		CreatedAt:     FormatTimestamp(expiry.Add(-15 * time.Minute)),
	}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, ok := DecodeTransactionInfo(tlv.DecodeNested(encoded))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if decoded != original {
		t.Errorf("expected %+v, got %+v", original, decoded)
	}

	parsed, ok := decoded.Expiry()
	if !ok {
		t.Fatal("expected expiry to parse")
	}
	if !parsed.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, parsed)
	}
}

func TestTransactionInfoExpiryAbsent(t *testing.T) {
	info := TransactionInfo{TransactionID: "abc"}
	if _, ok := info.Expiry(); ok {
		t.Error("expected no expiry")
	}

	info.ExpiresAt = "not-a-timestamp"
	if _, ok := info.Expiry(); ok {
		t.Error("expected malformed expiry to report false")
	}
}

func TestMandateRoundTrip(t *testing.T) {
	original := Mandate{
		Reference:     "MND-0099",
		Frequency:     "MONTHLY",
		ValidityStart: "01092026",
		ValidityEnd:   "31082027",
		MaxAmount:     "250",
	}

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, ok := DecodeMandate(tlv.DecodeNested(encoded))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if decoded != original {
		t.Errorf("expected %+v, got %+v", original, decoded)
	}
}

func TestMandateValidityWindow(t *testing.T) {
	tests := []struct {
		name    string
		mandate Mandate
		wantErr bool
		inverted bool
	}{
		{
			name:    "valid window",
			mandate: Mandate{ValidityStart: "01012026", ValidityEnd: "31122026"},
		},
		{
			name:     "end before start",
			mandate:  Mandate{ValidityStart: "31122026", ValidityEnd: "01012026"},
			inverted: true,
		},
		{
			name:    "malformed start",
			mandate: Mandate{ValidityStart: "2026-01-01", ValidityEnd: "31122026"},
			wantErr: true,
		},
		{
			name:    "malformed end",
			mandate: Mandate{ValidityStart: "01012026", ValidityEnd: "99999999"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.mandate.ValidityWindow()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.inverted != end.Before(start) {
				t.Errorf("expected inverted=%v, start=%v end=%v", tt.inverted, start, end)
			}
		})
	}
}
