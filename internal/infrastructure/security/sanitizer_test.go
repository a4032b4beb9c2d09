package security

import (
	"net/http"
	"testing"
)

func TestSanitizeHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  http.Header
		expected map[string]string
	}{
		{
			name: "sensitive headers are redacted",
			headers: http.Header{
				"Authorization": []string{"Bearer secret-token"},
				"Cookie":        []string{"session=abc123"},
				"Content-Type":  []string{"application/json"},
				"X-Api-Key":     []string{"my-api-key"},
			},
			expected: map[string]string{
				"Authorization": "[REDACTED]",
				"Cookie":        "[REDACTED]",
				"Content-Type":  "application/json",
				"X-Api-Key":     "[REDACTED]",
			},
		},
		{
			name: "multiple values joined",
			headers: http.Header{
				"Accept": []string{"application/json", "text/plain"},
			},
			expected: map[string]string{
				"Accept": "application/json, text/plain",
			},
		},
		{
			name:     "empty headers",
			headers:  http.Header{},
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeHeaders(tt.headers)

			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d headers, got %d", len(tt.expected), len(result))
			}
			for key, expected := range tt.expected {
				if result[key] != expected {
					t.Errorf("header %q: expected %q, got %q", key, expected, result[key])
				}
			}
		})
	}
}

func TestMaskAlias(t *testing.T) {
	tests := []struct {
		name     string
		alias    string
		expected string
	}{
		{"mobile alias", "264811234567@NamPay", "26**********@NamPay"},
		{"short local part", "ab@wallet", "**@wallet"},
		{"no domain", "264811234567", "26**********"},
		{"single char", "a", "*"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAlias(tt.alias); got != tt.expected {
				t.Errorf("MaskAlias(%q) = %q, expected %q", tt.alias, got, tt.expected)
			}
		})
	}
}

func TestMaskTokenID(t *testing.T) {
	tests := []struct {
		name     string
		tokenID  string
		expected string
	}{
		{"full token", "123456789012", "********9012"},
		{"minimum token", "123456", "**3456"},
		{"too short", "1234", "****"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskTokenID(tt.tokenID); got != tt.expected {
				t.Errorf("MaskTokenID(%q) = %q, expected %q", tt.tokenID, got, tt.expected)
			}
		})
	}
}
