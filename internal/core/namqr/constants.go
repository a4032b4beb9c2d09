// Package namqr holds the NAMQR domain model: the decoded payload record,
// the top-level tag table, the nested template codecs and the field
// formatting rules shared by the generator, parser and validator.
package namqr

// Top-level tag table. Tag 00 is always first in a serialized payload and
// tag 63 is always last.
const (
	TagPayloadFormat     = "00"
	TagPointOfInitiation = "01"
	TagLegacyPayerAlias  = "17"
	TagIPPPayeeAlias     = "26"
	TagLegacyPayeeAlias  = "28"
	TagIPPPayerAlias     = "29"
	TagMerchantCategory  = "52"
	TagCurrency          = "53"
	TagAmount            = "54"
	TagCountryCode       = "58"
	TagPayeeName         = "59"
	TagPayeeCity         = "60"
	TagPostalCode        = "61"
	TagAdditionalData    = "62"
	TagCRC               = "63"
	TagTokenVaultID      = "65"
	TagPurposeTemplate   = "80"
	TagInvoiceTemplate   = "81"
	TagTxnTemplate       = "82"
	TagMandateTemplate   = "83"
	TagSignature         = "99"
)

// Payload format indicator values.
const (
	FormatStandard = "01"
	FormatSigned   = "99"
)

// PointOfInitiation encodes who presented the code and whether it is
// reusable (static) or single-transaction (dynamic).
type PointOfInitiation string

const (
	PayeeStatic  PointOfInitiation = "11"
	PayeeDynamic PointOfInitiation = "12"
	PayerStatic  PointOfInitiation = "13"
	PayerDynamic PointOfInitiation = "14"
)

// Valid reports whether p is one of the four values the standard allows.
func (p PointOfInitiation) Valid() bool {
	switch p {
	case PayeeStatic, PayeeDynamic, PayerStatic, PayerDynamic:
		return true
	}
	return false
}

// Dynamic reports whether the code is single-use and time-bounded.
func (p PointOfInitiation) Dynamic() bool {
	return p == PayeeDynamic || p == PayerDynamic
}

// PayerPresented reports whether the payer side displays the code.
func (p PointOfInitiation) PayerPresented() bool {
	return p == PayerStatic || p == PayerDynamic
}

// Purpose codes carried in template 80 to tell downstream systems the
// semantic category of the payment.
const (
	PurposeP2PTransfer       = "01"
	PurposeMerchantPayment   = "02"
	PurposeATMWithdrawal     = "03"
	PurposeGovernmentVoucher = "04"
	PurposeRecurringMandate  = "05"
)

// Initiation mode values inside template 80.
const (
	InitiationStatic  = "00"
	InitiationDynamic = "01"
)

const (
	// MCCPersonToPerson marks a transfer between individuals rather than a
	// merchant payment.
	MCCPersonToPerson = "0000"

	// MCCATMWithdrawal classifies cash withdrawal codes presented by ATMs.
	MCCATMWithdrawal = "6011"

	// DefaultAliasGUI identifies the domestic IPP alias scheme inside
	// account templates.
	DefaultAliasGUI = "na.ipp"

	// MaxPayeeNameLen and MaxPayeeCityLen are per-field ceilings; the
	// generator truncates silently rather than failing.
	MaxPayeeNameLen = 25
	MaxPayeeCityLen = 15

	// SoftMaxPayloadLen is the recommended payload ceiling. Longer payloads
	// draw a warning, never a rejection.
	SoftMaxPayloadLen = 512

	// DefaultCountryCode and DefaultCurrency cover the domestic network.
	DefaultCountryCode = "NA"
	DefaultCurrency    = "516"
)

// MandateDateLayout is the ddmmyyyy layout used by template 83 validity
// fields. Timestamp fields in template 82 use RFC 3339.
const MandateDateLayout = "02012006"
