package namqr

import (
	"regexp"

	"3tcapital/ms_namqr_core/internal/core/tlv"
)

// Record is the decoded semantic payload of one NAMQR string. A record is
// built once (by the generator from a request, or by the parser from a
// scanned string) and never mutated afterwards.
type Record struct {
	PayloadFormat     string
	PointOfInitiation PointOfInitiation
	MerchantCategory  string
	Currency          string
	Amount            string
	CountryCode       string
	PayeeName         string
	PayeeCity         string
	PostalCode        string
	TokenVaultID      string

	// Account identity templates. A record may carry IPP aliases, legacy
	// aliases, or both, on either side of the payment.
	PayeeAlias       *AliasTemplate
	PayerAlias       *AliasTemplate
	LegacyPayeeAlias *LegacyAlias
	LegacyPayerAlias *LegacyAlias

	AdditionalData *AdditionalData
	Purpose        *PurposeInfo
	Invoice        *InvoiceInfo
	Transaction    *TransactionInfo
	Mandate        *Mandate

	// Signature is the hex signature carried in tag 99 of signed payloads.
	Signature string
	CRC       string
}

// Field format rules enforced at validation time. The parser deliberately
// accepts anything that decodes; format policing is a separate layer.
var (
	mccPattern      = regexp.MustCompile(`^\d{4}$`)
	countryPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyPattern = regexp.MustCompile(`^\d{3}$`)
	amountPattern   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	tokenIDPattern  = regexp.MustCompile(`^\d{6,12}$`)
)

// ValidMCC reports whether s is a 4-digit merchant category code.
func ValidMCC(s string) bool { return mccPattern.MatchString(s) }

// ValidCountryCode reports whether s is an ISO 3166-1 alpha-2 code.
func ValidCountryCode(s string) bool { return countryPattern.MatchString(s) }

// ValidCurrency reports whether s is an ISO 4217 numeric code.
func ValidCurrency(s string) bool { return currencyPattern.MatchString(s) }

// ValidAmount reports whether s is a positive decimal with at most two
// fraction digits and no separators or symbols.
func ValidAmount(s string) bool {
	if !amountPattern.MatchString(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= '1' && s[i] <= '9' {
			return true
		}
	}
	return false
}

// ValidTokenVaultID reports whether s is a 6 to 12 digit token identifier.
func ValidTokenVaultID(s string) bool { return tokenIDPattern.MatchString(s) }

// SignablePayload returns everything in the serialized payload before the
// first top-level tag 99 unit. Signature verification runs over exactly
// this slice. The payload is walked unit by unit so that an incidental
// "99" inside some value cannot shift the boundary. If the payload carries
// no signature unit the whole string is returned.
func SignablePayload(qr string) string {
	offset := 0
	for offset < len(qr) {
		unit, next, ok := tlv.DecodeUnit(qr, offset)
		if !ok {
			break
		}
		if unit.Tag == TagSignature {
			return qr[:offset]
		}
		offset = next
	}
	return qr
}

// TruncateName clips a payee name to the per-field ceiling. Documented
// behavior of the generator, not an error.
func TruncateName(name string) string {
	if len(name) > MaxPayeeNameLen {
		return name[:MaxPayeeNameLen]
	}
	return name
}

// TruncateCity clips a payee city to the per-field ceiling.
func TruncateCity(city string) string {
	if len(city) > MaxPayeeCityLen {
		return city[:MaxPayeeCityLen]
	}
	return city
}
