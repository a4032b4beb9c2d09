package namqr

import (
	"strings"
	"time"

	"3tcapital/ms_namqr_core/internal/core/tlv"
)

// Template codecs. Each template is a small bidirectional codec: Encode
// renders the nested TLV string for the template's own tag space, and the
// Decode function rebuilds the struct from a tlv.DecodeNested map. Decode
// returns false (not an error) when a template-mandatory sub-field is
// missing; the absence of a whole optional template is never a parse
// failure.

// AliasTemplate is the IPP account-identity template (top-level tag 26 for
// the payee, 29 for the payer).
type AliasTemplate struct {
	GUI           string // globally unique identifier of the alias scheme
	Alias         string // e.g. "264812345678@buffr"
	OrgID         string // optional org / merchant identifier
	MinimumAmount string // optional floor for incoming payments
}

const (
	aliasSubGUI    = "00"
	aliasSubAlias  = "01"
	aliasSubOrgID  = "02"
	aliasSubMinAmt = "03"
)

// Encode renders the template's inner TLV string.
func (a AliasTemplate) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{aliasSubGUI, a.GUI, true},
		{aliasSubAlias, a.Alias, true},
		{aliasSubOrgID, a.OrgID, false},
		{aliasSubMinAmt, a.MinimumAmount, false},
	})
}

// DecodeAlias rebuilds an alias template from its nested tag map.
func DecodeAlias(m map[string]string) (AliasTemplate, bool) {
	gui, okGUI := m[aliasSubGUI]
	alias, okAlias := m[aliasSubAlias]
	if !okGUI || !okAlias {
		return AliasTemplate{}, false
	}
	return AliasTemplate{
		GUI:           gui,
		Alias:         alias,
		OrgID:         m[aliasSubOrgID],
		MinimumAmount: m[aliasSubMinAmt],
	}, true
}

// LegacyAlias is the existing-payment-system identity template (top-level
// tag 17 for the payer, 28 for the payee).
type LegacyAlias struct {
	GUI       string
	AccountID string
}

const (
	legacySubGUI     = "00"
	legacySubAccount = "01"
)

func (l LegacyAlias) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{legacySubGUI, l.GUI, true},
		{legacySubAccount, l.AccountID, true},
	})
}

// DecodeLegacyAlias rebuilds a legacy alias template from its nested tag map.
func DecodeLegacyAlias(m map[string]string) (LegacyAlias, bool) {
	gui, okGUI := m[legacySubGUI]
	account, okAccount := m[legacySubAccount]
	if !okGUI || !okAccount {
		return LegacyAlias{}, false
	}
	return LegacyAlias{GUI: gui, AccountID: account}, true
}

// AdditionalData is the flat labeled sub-field set of top-level tag 62.
// Every sub-field is optional.
type AdditionalData struct {
	BillNumber     string
	MobileNumber   string
	StoreLabel     string
	ReferenceLabel string
	TerminalLabel  string
	Description    string
}

const (
	addlSubBill      = "01"
	addlSubMobile    = "02"
	addlSubStore     = "03"
	addlSubReference = "05"
	addlSubTerminal  = "07"
	addlSubPurpose   = "08"
)

func (d AdditionalData) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{addlSubBill, d.BillNumber, false},
		{addlSubMobile, d.MobileNumber, false},
		{addlSubStore, d.StoreLabel, false},
		{addlSubReference, d.ReferenceLabel, false},
		{addlSubTerminal, d.TerminalLabel, false},
		{addlSubPurpose, d.Description, false},
	})
}

// Empty reports whether no sub-field carries a value.
func (d AdditionalData) Empty() bool {
	return d == AdditionalData{}
}

// DecodeAdditionalData rebuilds the additional-data template. It reports
// false only for a template with no recognized sub-fields at all.
func DecodeAdditionalData(m map[string]string) (AdditionalData, bool) {
	d := AdditionalData{
		BillNumber:     m[addlSubBill],
		MobileNumber:   m[addlSubMobile],
		StoreLabel:     m[addlSubStore],
		ReferenceLabel: m[addlSubReference],
		TerminalLabel:  m[addlSubTerminal],
		Description:    m[addlSubPurpose],
	}
	return d, !d.Empty()
}

// PurposeInfo is unreserved template 80: initiation mode, purpose code and
// optional merchant metadata. The generator always emits it.
type PurposeInfo struct {
	InitiationMode string // InitiationStatic or InitiationDynamic
	PurposeCode    string
	MerchantType   string
	MerchantGenre  string
}

const (
	purposeSubMode  = "01"
	purposeSubCode  = "02"
	purposeSubType  = "03"
	purposeSubGenre = "04"
)

func (p PurposeInfo) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{purposeSubMode, p.InitiationMode, true},
		{purposeSubCode, p.PurposeCode, true},
		{purposeSubType, p.MerchantType, false},
		{purposeSubGenre, p.MerchantGenre, false},
	})
}

// DecodePurposeInfo rebuilds template 80 from its nested tag map.
func DecodePurposeInfo(m map[string]string) (PurposeInfo, bool) {
	mode, okMode := m[purposeSubMode]
	code, okCode := m[purposeSubCode]
	if !okMode || !okCode {
		return PurposeInfo{}, false
	}
	return PurposeInfo{
		InitiationMode: mode,
		PurposeCode:    code,
		MerchantType:   m[purposeSubType],
		MerchantGenre:  m[purposeSubGenre],
	}, true
}

// InvoiceInfo is unreserved template 81.
type InvoiceInfo struct {
	Number string
	Date   string // ddmmyyyy, optional
}

const (
	invoiceSubNumber = "00"
	invoiceSubDate   = "01"
)

func (i InvoiceInfo) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{invoiceSubNumber, i.Number, true},
		{invoiceSubDate, i.Date, false},
	})
}

// DecodeInvoiceInfo rebuilds template 81 from its nested tag map.
func DecodeInvoiceInfo(m map[string]string) (InvoiceInfo, bool) {
	number, ok := m[invoiceSubNumber]
	if !ok {
		return InvoiceInfo{}, false
	}
	return InvoiceInfo{Number: number, Date: m[invoiceSubDate]}, true
}

// TransactionInfo is unreserved template 82: transaction identity and the
// time bounds of a dynamic code. Timestamps are RFC 3339 strings on the
// wire.
type TransactionInfo struct {
	TransactionID string
	ExpiresAt     string
	CreatedAt     string
}

const (
	txnSubID      = "00"
	txnSubExpiry  = "01"
	txnSubCreated = "02"
)

func (t TransactionInfo) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{txnSubID, t.TransactionID, true},
		{txnSubExpiry, t.ExpiresAt, false},
		{txnSubCreated, t.CreatedAt, false},
	})
}

// DecodeTransactionInfo rebuilds template 82 from its nested tag map.
func DecodeTransactionInfo(m map[string]string) (TransactionInfo, bool) {
	id, ok := m[txnSubID]
	if !ok {
		return TransactionInfo{}, false
	}
	return TransactionInfo{
		TransactionID: id,
		ExpiresAt:     m[txnSubExpiry],
		CreatedAt:     m[txnSubCreated],
	}, true
}

// Expiry returns the parsed expiry instant. The second return value is
// false when no expiry is carried or it does not parse.
func (t TransactionInfo) Expiry() (time.Time, bool) {
	if t.ExpiresAt == "" {
		return time.Time{}, false
	}
	parsed, err := ParseTimestamp(t.ExpiresAt)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Mandate is unreserved template 83: recurring-mandate terms with a
// ddmmyyyy validity window.
type Mandate struct {
	Reference     string
	Frequency     string
	ValidityStart string // ddmmyyyy
	ValidityEnd   string // ddmmyyyy
	MaxAmount     string
}

const (
	mandateSubReference = "00"
	mandateSubFrequency = "01"
	mandateSubStart     = "02"
	mandateSubEnd       = "03"
	mandateSubMaxAmount = "04"
)

func (m Mandate) Encode() (string, error) {
	return encodeSubUnits([]subUnit{
		{mandateSubReference, m.Reference, true},
		{mandateSubFrequency, m.Frequency, false},
		{mandateSubStart, m.ValidityStart, true},
		{mandateSubEnd, m.ValidityEnd, true},
		{mandateSubMaxAmount, m.MaxAmount, false},
	})
}

// DecodeMandate rebuilds template 83 from its nested tag map.
func DecodeMandate(subs map[string]string) (Mandate, bool) {
	reference, okRef := subs[mandateSubReference]
	start, okStart := subs[mandateSubStart]
	end, okEnd := subs[mandateSubEnd]
	if !okRef || !okStart || !okEnd {
		return Mandate{}, false
	}
	return Mandate{
		Reference:     reference,
		Frequency:     subs[mandateSubFrequency],
		ValidityStart: start,
		ValidityEnd:   end,
		MaxAmount:     subs[mandateSubMaxAmount],
	}, true
}

// ValidityWindow parses both validity dates. It reports an error message
// suitable for the validator when either date is malformed or the end
// precedes the start.
func (m Mandate) ValidityWindow() (start, end time.Time, err error) {
	start, err = ParseMandateDate(m.ValidityStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = ParseMandateDate(m.ValidityEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// subUnit pairs a sub-tag with its value for ordered template encoding.
type subUnit struct {
	tag       string
	value     string
	mandatory bool
}

func encodeSubUnits(subs []subUnit) (string, error) {
	var b strings.Builder
	for _, s := range subs {
		if s.value == "" && !s.mandatory {
			continue
		}
		encoded, err := tlv.EncodeUnit(s.tag, s.value)
		if err != nil {
			return "", err
		}
		b.WriteString(encoded)
	}
	return b.String(), nil
}
