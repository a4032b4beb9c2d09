// Package qr implements the NAMQR use cases: generating payload strings
// from typed requests, parsing scanned strings back into records, and
// validating parsed records in layers.
package qr

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"3tcapital/ms_namqr_core/internal/core/crc16"
	"3tcapital/ms_namqr_core/internal/core/namqr"
	"3tcapital/ms_namqr_core/internal/core/tlv"
)

// Kind identifies one of the closed set of supported generation cases.
// Every kind maps to exactly one point-of-initiation method and purpose
// code, so the "which optional field applies here" question never arises.
type Kind string

const (
	KindP2PStatic       Kind = "P2P_STATIC"
	KindP2PDynamic      Kind = "P2P_DYNAMIC"
	KindMerchantStatic  Kind = "MERCHANT_STATIC"
	KindMerchantDynamic Kind = "MERCHANT_DYNAMIC"
	KindATMWithdrawal   Kind = "ATM_WITHDRAWAL"
	KindVoucher         Kind = "VOUCHER"
	KindMandate         Kind = "MANDATE"
)

// Valid reports whether k names a supported generation case.
func (k Kind) Valid() bool {
	switch k {
	case KindP2PStatic, KindP2PDynamic, KindMerchantStatic, KindMerchantDynamic,
		KindATMWithdrawal, KindVoucher, KindMandate:
		return true
	}
	return false
}

// Request carries the inputs for one generation. Use the New* constructors;
// they bind exactly the fields each kind needs.
type Request struct {
	Kind Kind

	PayeeName   string
	PayeeCity   string
	CountryCode string
	PostalCode  string

	// MerchantCategory is required for merchant kinds and defaulted for the
	// others (person-to-person, ATM).
	MerchantCategory string

	// Account identity. IPP-stream requests carry AliasGUI plus IPPAlias;
	// LegacyPayee covers payees still on the existing payment system.
	AliasGUI    string
	IPPAlias    string
	OrgID       string
	LegacyPayee *namqr.LegacyAlias

	TokenVaultID string

	// Dynamic-code fields.
	Currency      string
	Amount        float64
	TransactionID string
	ExpiresAt     time.Time
	CreatedAt     time.Time

	Additional    *namqr.AdditionalData
	MerchantType  string
	MerchantGenre string
	Mandate       *namqr.Mandate

	// SignatureHex, when present, switches the payload format indicator to
	// the signed variant and emits the signature unit before the CRC.
	SignatureHex string
}

// NewP2PStatic builds a reusable person-to-person request.
func NewP2PStatic(payeeName, payeeCity, ippAlias, tokenID string) Request {
	return Request{
		Kind:         KindP2PStatic,
		PayeeName:    payeeName,
		PayeeCity:    payeeCity,
		AliasGUI:     namqr.DefaultAliasGUI,
		IPPAlias:     ippAlias,
		TokenVaultID: tokenID,
	}
}

// NewP2PDynamic builds a single-use person-to-person request with an amount
// and expiry.
func NewP2PDynamic(payeeName, payeeCity, ippAlias, tokenID string, amount float64, expiresAt time.Time) Request {
	return Request{
		Kind:          KindP2PDynamic,
		PayeeName:     payeeName,
		PayeeCity:     payeeCity,
		AliasGUI:      namqr.DefaultAliasGUI,
		IPPAlias:      ippAlias,
		TokenVaultID:  tokenID,
		Amount:        amount,
		TransactionID: uuid.NewString(),
		ExpiresAt:     expiresAt,
	}
}

// NewMerchantStatic builds a reusable merchant payment request.
func NewMerchantStatic(payeeName, payeeCity, mcc, ippAlias, tokenID string) Request {
	return Request{
		Kind:             KindMerchantStatic,
		PayeeName:        payeeName,
		PayeeCity:        payeeCity,
		MerchantCategory: mcc,
		AliasGUI:         namqr.DefaultAliasGUI,
		IPPAlias:         ippAlias,
		TokenVaultID:     tokenID,
	}
}

// NewMerchantDynamic builds a single-transaction merchant payment request.
func NewMerchantDynamic(payeeName, payeeCity, mcc, ippAlias, tokenID string, amount float64, expiresAt time.Time) Request {
	return Request{
		Kind:             KindMerchantDynamic,
		PayeeName:        payeeName,
		PayeeCity:        payeeCity,
		MerchantCategory: mcc,
		AliasGUI:         namqr.DefaultAliasGUI,
		IPPAlias:         ippAlias,
		TokenVaultID:     tokenID,
		Amount:           amount,
		TransactionID:    uuid.NewString(),
		ExpiresAt:        expiresAt,
	}
}

// NewATMWithdrawal builds a cash withdrawal request presented by an ATM.
func NewATMWithdrawal(atmName, atmCity, ippAlias, tokenID string, amount float64, expiresAt time.Time) Request {
	return Request{
		Kind:          KindATMWithdrawal,
		PayeeName:     atmName,
		PayeeCity:     atmCity,
		AliasGUI:      namqr.DefaultAliasGUI,
		IPPAlias:      ippAlias,
		TokenVaultID:  tokenID,
		Amount:        amount,
		TransactionID: uuid.NewString(),
		ExpiresAt:     expiresAt,
	}
}

// NewVoucher builds a single-use voucher redemption request tagged with the
// government voucher purpose code.
func NewVoucher(beneficiaryName, beneficiaryCity, walletAlias, tokenID string, value float64, expiresAt time.Time) Request {
	return Request{
		Kind:          KindVoucher,
		PayeeName:     beneficiaryName,
		PayeeCity:     beneficiaryCity,
		AliasGUI:      namqr.DefaultAliasGUI,
		IPPAlias:      walletAlias,
		TokenVaultID:  tokenID,
		Amount:        value,
		TransactionID: uuid.NewString(),
		ExpiresAt:     expiresAt,
	}
}

// NewMandate builds a recurring-mandate request.
func NewMandate(payeeName, payeeCity, ippAlias, tokenID string, mandate namqr.Mandate) Request {
	return Request{
		Kind:         KindMandate,
		PayeeName:    payeeName,
		PayeeCity:    payeeCity,
		AliasGUI:     namqr.DefaultAliasGUI,
		IPPAlias:     ippAlias,
		TokenVaultID: tokenID,
		Mandate:      &mandate,
	}
}

// kindProfile is the per-kind wiring: presentation method, purpose code and
// merchant category fallback.
type kindProfile struct {
	poi        namqr.PointOfInitiation
	purpose    string
	defaultMCC string
}

func profileFor(kind Kind) (kindProfile, bool) {
	switch kind {
	case KindP2PStatic:
		return kindProfile{namqr.PayeeStatic, namqr.PurposeP2PTransfer, namqr.MCCPersonToPerson}, true
	case KindP2PDynamic:
		return kindProfile{namqr.PayeeDynamic, namqr.PurposeP2PTransfer, namqr.MCCPersonToPerson}, true
	case KindMerchantStatic:
		return kindProfile{namqr.PayeeStatic, namqr.PurposeMerchantPayment, ""}, true
	case KindMerchantDynamic:
		return kindProfile{namqr.PayeeDynamic, namqr.PurposeMerchantPayment, ""}, true
	case KindATMWithdrawal:
		return kindProfile{namqr.PayeeDynamic, namqr.PurposeATMWithdrawal, namqr.MCCATMWithdrawal}, true
	case KindVoucher:
		return kindProfile{namqr.PayerDynamic, namqr.PurposeGovernmentVoucher, namqr.MCCPersonToPerson}, true
	case KindMandate:
		return kindProfile{namqr.PayeeStatic, namqr.PurposeRecurringMandate, namqr.MCCPersonToPerson}, true
	}
	return kindProfile{}, false
}

// Generate assembles the complete payload string for a request. It validates
// the request up front and returns a namqr.ValidationErrors listing every
// problem; no partial string is ever returned. Payee name and city are
// truncated to their per-field ceilings silently.
func Generate(req Request) (string, error) {
	profile, ok := profileFor(req.Kind)
	if !ok {
		return "", namqr.ValidationErrors{{Field: "kind", Rule: "enum", Message: "unsupported generation kind " + string(req.Kind)}}
	}

	if errs := validateRequest(req, profile); len(errs) > 0 {
		return "", errs
	}

	mcc := req.MerchantCategory
	if mcc == "" {
		mcc = profile.defaultMCC
	}
	country := req.CountryCode
	if country == "" {
		country = namqr.DefaultCountryCode
	}
	currency := req.Currency
	if currency == "" {
		currency = namqr.DefaultCurrency
	}
	format := namqr.FormatStandard
	if req.SignatureHex != "" {
		format = namqr.FormatSigned
	}

	var w payloadWriter
	w.unit(namqr.TagPayloadFormat, format)
	w.unit(namqr.TagPointOfInitiation, string(profile.poi))

	w.aliasUnits(req, profile.poi)

	w.unit(namqr.TagMerchantCategory, mcc)
	if profile.poi.Dynamic() || profile.poi.PayerPresented() {
		w.unit(namqr.TagCurrency, currency)
	}
	if profile.poi.Dynamic() {
		w.unit(namqr.TagAmount, namqr.FormatAmount(req.Amount))
	}
	w.unit(namqr.TagCountryCode, country)
	w.unit(namqr.TagPayeeName, namqr.TruncateName(req.PayeeName))
	w.unit(namqr.TagPayeeCity, namqr.TruncateCity(req.PayeeCity))
	if req.PostalCode != "" {
		w.unit(namqr.TagPostalCode, req.PostalCode)
	}
	if req.Additional != nil && !req.Additional.Empty() {
		w.template(namqr.TagAdditionalData, *req.Additional)
	}
	w.unit(namqr.TagTokenVaultID, req.TokenVaultID)

	mode := namqr.InitiationStatic
	if profile.poi.Dynamic() {
		mode = namqr.InitiationDynamic
	}
	w.template(namqr.TagPurposeTemplate, namqr.PurposeInfo{
		InitiationMode: mode,
		PurposeCode:    profile.purpose,
		MerchantType:   req.MerchantType,
		MerchantGenre:  req.MerchantGenre,
	})

	if profile.poi.Dynamic() {
		created := req.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		txn := namqr.TransactionInfo{
			TransactionID: req.TransactionID,
			CreatedAt:     namqr.FormatTimestamp(created),
		}
		if !req.ExpiresAt.IsZero() {
			txn.ExpiresAt = namqr.FormatTimestamp(req.ExpiresAt)
		}
		w.template(namqr.TagTxnTemplate, txn)
	}

	if req.Mandate != nil {
		w.template(namqr.TagMandateTemplate, *req.Mandate)
	}

	if req.SignatureHex != "" {
		w.unit(namqr.TagSignature, req.SignatureHex)
	}

	if len(w.errs) > 0 {
		return "", w.errs
	}
	return crc16.Append(w.b.String() + crc16.Marker), nil
}

func validateRequest(req Request, profile kindProfile) namqr.ValidationErrors {
	var errs namqr.ValidationErrors
	add := func(field, rule, message string) {
		errs = append(errs, namqr.ValidationError{Field: field, Rule: rule, Message: message})
	}

	if strings.TrimSpace(req.PayeeName) == "" {
		add("payeeName", "required", "payee name is required")
	}
	if strings.TrimSpace(req.PayeeCity) == "" {
		add("payeeCity", "required", "payee city is required")
	}
	if !namqr.ValidTokenVaultID(req.TokenVaultID) {
		add("tokenVaultId", "format", "token vault id must be 6 to 12 digits")
	}
	if req.IPPAlias == "" && req.LegacyPayee == nil {
		add("alias", "required", "an IPP alias or legacy account template is required")
	}
	if req.IPPAlias != "" && !strings.Contains(req.IPPAlias, "@") {
		add("alias", "format", "IPP alias must contain '@'")
	}
	if req.Kind == KindMerchantStatic || req.Kind == KindMerchantDynamic {
		if !namqr.ValidMCC(req.MerchantCategory) {
			add("merchantCategoryCode", "format", "merchant payments require a 4-digit MCC")
		}
	}
	if req.MerchantCategory != "" && !namqr.ValidMCC(req.MerchantCategory) {
		add("merchantCategoryCode", "format", "merchant category code must be 4 digits")
	}
	if profile.poi.Dynamic() {
		if req.Amount <= 0 {
			add("transactionAmount", "range", "dynamic codes require a positive amount")
		}
		if req.TransactionID == "" {
			add("transactionId", "required", "dynamic codes require a transaction id")
		}
	}
	if req.Currency != "" && !namqr.ValidCurrency(req.Currency) {
		add("transactionCurrency", "format", "currency must be a 3-digit ISO 4217 code")
	}
	if req.CountryCode != "" && !namqr.ValidCountryCode(req.CountryCode) {
		add("countryCode", "format", "country must be a 2-letter ISO 3166-1 code")
	}
	if req.Kind == KindMandate {
		if req.Mandate == nil {
			add("mandate", "required", "mandate requests require mandate terms")
		} else {
			start, end, err := req.Mandate.ValidityWindow()
			switch {
			case err != nil:
				add("mandate", "format", err.Error())
			case end.Before(start):
				add("mandate", "range", "validity end precedes validity start")
			}
			if req.Mandate.Reference == "" {
				add("mandate", "required", "mandate reference is required")
			}
		}
	}

	return errs
}

// payloadWriter accumulates ordered units, collecting encode failures
// instead of aborting so the caller sees every problem at once.
type payloadWriter struct {
	b    strings.Builder
	errs namqr.ValidationErrors
}

func (w *payloadWriter) unit(tag, value string) {
	encoded, err := tlv.EncodeUnit(tag, value)
	if err != nil {
		w.errs = append(w.errs, namqr.ValidationError{Field: "tag " + tag, Rule: "encoding", Message: err.Error()})
		return
	}
	w.b.WriteString(encoded)
}

type encoder interface {
	Encode() (string, error)
}

func (w *payloadWriter) template(tag string, t encoder) {
	inner, err := t.Encode()
	if err != nil {
		w.errs = append(w.errs, namqr.ValidationError{Field: "tag " + tag, Rule: "encoding", Message: err.Error()})
		return
	}
	w.unit(tag, inner)
}

func (w *payloadWriter) aliasUnits(req Request, poi namqr.PointOfInitiation) {
	if req.LegacyPayee != nil {
		w.template(namqr.TagLegacyPayeeAlias, *req.LegacyPayee)
	}
	if req.IPPAlias == "" {
		return
	}
	alias := namqr.AliasTemplate{
		GUI:   req.AliasGUI,
		Alias: req.IPPAlias,
		OrgID: req.OrgID,
	}
	if alias.GUI == "" {
		alias.GUI = namqr.DefaultAliasGUI
	}
	// Payer-presented codes identify the paying account; payee-presented
	// codes identify the receiving one.
	if poi.PayerPresented() {
		w.template(namqr.TagIPPPayerAlias, alias)
	} else {
		w.template(namqr.TagIPPPayeeAlias, alias)
	}
}
