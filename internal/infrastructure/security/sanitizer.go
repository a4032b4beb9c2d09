// Package security masks payment identifiers and credentials before they
// reach logs or audit records.
package security

import (
	"net/http"
	"strings"
)

// Sensitive header names that should be redacted.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,
}

const redactedValue = "[REDACTED]"

// SanitizeHeaders removes sensitive headers from an HTTP header map.
// Returns a new map with sensitive values redacted.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string)

	for key, values := range headers {
		lowerKey := strings.ToLower(key)
		if sensitiveHeaders[lowerKey] {
			sanitized[key] = redactedValue
		} else {
			sanitized[key] = strings.Join(values, ", ")
		}
	}

	return sanitized
}

// MaskAlias obscures a payment alias for logging. The part before the '@'
// separator identifies a person (a mobile number or handle), so only its
// first two characters survive. The domain suffix stays readable.
func MaskAlias(alias string) string {
	if alias == "" {
		return ""
	}

	local := alias
	domain := ""
	if idx := strings.LastIndex(alias, "@"); idx >= 0 {
		local = alias[:idx]
		domain = alias[idx:]
	}

	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + domain
}

// MaskTokenID obscures a token vault identifier, keeping the last four
// digits for correlation.
func MaskTokenID(tokenID string) string {
	if len(tokenID) <= 4 {
		return strings.Repeat("*", len(tokenID))
	}
	return strings.Repeat("*", len(tokenID)-4) + tokenID[len(tokenID)-4:]
}
