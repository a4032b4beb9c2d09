package namqr

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatAmount renders a transaction amount in its minimal wire form: at
// most two fraction digits, no forced trailing zeros, no separators, no
// currency symbol. 99.12 stays "99.12", 10.00 becomes "10", 0.5 stays "0.5".
func FormatAmount(amount float64) string {
	rounded := math.Round(amount*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// ParseAmount converts a wire amount back to a number. It rejects anything
// ValidAmount rejects so parsed records cannot smuggle malformed amounts
// into arithmetic.
func ParseAmount(s string) (float64, error) {
	if !ValidAmount(s) {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

// FormatMandateDate renders a mandate validity date as ddmmyyyy.
func FormatMandateDate(t time.Time) string {
	return t.Format(MandateDateLayout)
}

// ParseMandateDate parses a ddmmyyyy validity date.
func ParseMandateDate(s string) (time.Time, error) {
	t, err := time.Parse(MandateDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed mandate date %q: %w", s, err)
	}
	return t, nil
}

// FormatTimestamp renders an expiry or creation instant for template 82.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimestamp parses a template 82 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t, nil
}
