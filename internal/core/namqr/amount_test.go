package namqr

import (
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"two fractions kept", 99.12, "99.12"},
		{"trailing zeros trimmed", 10.00, "10"},
		{"one fraction kept", 0.5, "0.5"},
		{"rounds to two fractions", 1.006, "1.01"},
		{"large amount no separators", 1234567.89, "1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAmount(tt.amount); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("99.12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 99.12 {
		t.Errorf("expected 99.12, got %v", got)
	}

	for _, bad := range []string{"", "0", "-1", "1.234", "1,000", "NaN"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestFormatAmountRoundTrip(t *testing.T) {
	for _, amount := range []float64{0.01, 0.5, 1, 10.5, 99.12, 100000} {
		formatted := FormatAmount(amount)
		parsed, err := ParseAmount(formatted)
		if err != nil {
			t.Fatalf("amount %v formatted to unparseable %q: %v", amount, formatted, err)
		}
		if parsed != amount {
			t.Errorf("expected %v, got %v via %q", amount, parsed, formatted)
		}
	}
}

func TestMandateDateRoundTrip(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	formatted := FormatMandateDate(date)
	if formatted != "01092026" {
		t.Fatalf("expected 01092026, got %q", formatted)
	}

	parsed, err := ParseMandateDate(formatted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(date) {
		t.Errorf("expected %v, got %v", date, parsed)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	instant := time.Date(2026, 8, 31, 14, 45, 30, 0, time.UTC)
	formatted := FormatTimestamp(instant)

	parsed, err := ParseTimestamp(formatted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(instant) {
		t.Errorf("expected %v, got %v", instant, parsed)
	}

	if _, err := ParseTimestamp("31-08-2026"); err == nil {
		t.Error("expected error for non RFC 3339 input")
	}
}
