package qr

import (
	"time"

	appqr "3tcapital/ms_namqr_core/internal/application/qr"
	"3tcapital/ms_namqr_core/internal/core/namqr"
)

// GenerateRequest is the request body for generating a payload.
type GenerateRequest struct {
	Kind             string  `json:"kind"`
	PayeeName        string  `json:"payeeName"`
	PayeeCity        string  `json:"payeeCity"`
	CountryCode      string  `json:"countryCode,omitempty"`
	PostalCode       string  `json:"postalCode,omitempty"`
	MerchantCategory string  `json:"merchantCategoryCode,omitempty"`
	Alias            string  `json:"alias"`
	OrgID            string  `json:"orgId,omitempty"`
	TokenVaultID     string  `json:"tokenVaultId"`
	Currency         string  `json:"transactionCurrency,omitempty"`
	Amount           float64 `json:"transactionAmount,omitempty"`
	ExpiresAt        string  `json:"expiresAt,omitempty"`

	LegacyAccount *LegacyAccountPayload `json:"legacyAccount,omitempty"`
	Additional    *AdditionalPayload    `json:"additionalData,omitempty"`
	Mandate       *MandatePayload       `json:"mandate,omitempty"`
	SignatureHex  string                `json:"signatureHex,omitempty"`
}

// LegacyAccountPayload identifies a payee on the existing payment system.
type LegacyAccountPayload struct {
	GUI       string `json:"gui"`
	AccountID string `json:"accountId"`
}

// AdditionalPayload mirrors the optional additional-data template.
type AdditionalPayload struct {
	BillNumber    string `json:"billNumber,omitempty"`
	MobileNumber  string `json:"mobileNumber,omitempty"`
	StoreLabel    string `json:"storeLabel,omitempty"`
	Reference     string `json:"referenceLabel,omitempty"`
	TerminalLabel string `json:"terminalLabel,omitempty"`
	Description   string `json:"purposeOfTransaction,omitempty"`
}

// MandatePayload mirrors the recurring-mandate template.
type MandatePayload struct {
	Reference     string `json:"reference"`
	Frequency     string `json:"frequency,omitempty"`
	ValidityStart string `json:"validityStart"`
	ValidityEnd   string `json:"validityEnd"`
	MaxAmount     string `json:"maxAmount,omitempty"`
}

// GenerateResponse carries the issued payload.
type GenerateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		QRString      string `json:"qrString"`
		TokenVaultID  string `json:"tokenVaultId"`
		TransactionID string `json:"transactionId,omitempty"`
	} `json:"data"`
}

// ParseRequest is the request body for parsing a scanned string.
type ParseRequest struct {
	QRString string `json:"qrString"`
}

// ParseResponse reports the structured decode result.
type ParseResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Success  bool           `json:"success"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Data     *RecordPayload `json:"data,omitempty"`
}

// ValidateRequest is the request body for the layered validator.
type ValidateRequest struct {
	QRString       string `json:"qrString"`
	SkipVaultCheck bool   `json:"skipVaultCheck,omitempty"`
}

// ValidateResponse reports the layered validation outcome.
type ValidateResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Accepted bool           `json:"accepted"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Data     *RecordPayload `json:"data,omitempty"`
}

// RecordPayload is the wire shape of a decoded payload record.
type RecordPayload struct {
	PayloadFormat     string `json:"payloadFormatIndicator"`
	PointOfInitiation string `json:"pointOfInitiationMethod"`
	MerchantCategory  string `json:"merchantCategoryCode"`
	Currency          string `json:"transactionCurrency,omitempty"`
	Amount            string `json:"transactionAmount,omitempty"`
	CountryCode       string `json:"countryCode"`
	PayeeName         string `json:"payeeName"`
	PayeeCity         string `json:"payeeCity"`
	PostalCode        string `json:"postalCode,omitempty"`
	TokenVaultID      string `json:"tokenVaultId"`
	Signature         string `json:"signature,omitempty"`

	PayeeAlias    *AliasPayload      `json:"payeeAlias,omitempty"`
	PayerAlias    *AliasPayload      `json:"payerAlias,omitempty"`
	Additional    *AdditionalPayload `json:"additionalData,omitempty"`
	PurposeCode   string             `json:"purposeCode,omitempty"`
	TransactionID string             `json:"transactionId,omitempty"`
	ExpiresAt     string             `json:"expiresAt,omitempty"`
	Mandate       *MandatePayload    `json:"mandate,omitempty"`
}

// AliasPayload is the wire shape of an account alias template.
type AliasPayload struct {
	GUI   string `json:"gui"`
	Alias string `json:"alias"`
	OrgID string `json:"orgId,omitempty"`
}

// VaultEntryResponse is the wire shape of a token vault lookup.
type VaultEntryResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TokenVaultID     string `json:"tokenVaultId"`
		PayeeName        string `json:"payeeName"`
		PayeeCity        string `json:"payeeCity"`
		MerchantCategory string `json:"merchantCategoryCode,omitempty"`
		Amount           string `json:"transactionAmount,omitempty"`
		Currency         string `json:"transactionCurrency,omitempty"`
		Alias            string `json:"alias,omitempty"`
		CreatedAt        string `json:"createdAt"`
	} `json:"data"`
}

// VoucherBatchRequest is the request body for a disbursement batch.
type VoucherBatchRequest struct {
	Vouchers []VoucherRequestPayload `json:"vouchers"`
	Workers  int                     `json:"workers,omitempty"`
}

// VoucherRequestPayload is one voucher in a disbursement batch.
type VoucherRequestPayload struct {
	BeneficiaryName string  `json:"beneficiaryName"`
	BeneficiaryCity string  `json:"beneficiaryCity"`
	WalletAlias     string  `json:"walletAlias"`
	TokenVaultID    string  `json:"tokenVaultId"`
	Value           float64 `json:"value"`
	ExpiresAt       string  `json:"expiresAt"`
}

// VoucherBatchResponse reports per-voucher outcomes.
type VoucherBatchResponse struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Total     int                    `json:"total"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	Results   []VoucherResultPayload `json:"results"`
}

// VoucherResultPayload is the outcome of one voucher in a batch.
type VoucherResultPayload struct {
	Index        int    `json:"index"`
	TokenVaultID string `json:"tokenVaultId"`
	QRString     string `json:"qrString,omitempty"`
	Error        string `json:"error,omitempty"`
}

// toRecordPayload flattens a decoded record into its wire shape.
func toRecordPayload(rec *namqr.Record) *RecordPayload {
	if rec == nil {
		return nil
	}

	p := &RecordPayload{
		PayloadFormat:     rec.PayloadFormat,
		PointOfInitiation: string(rec.PointOfInitiation),
		MerchantCategory:  rec.MerchantCategory,
		Currency:          rec.Currency,
		Amount:            rec.Amount,
		CountryCode:       rec.CountryCode,
		PayeeName:         rec.PayeeName,
		PayeeCity:         rec.PayeeCity,
		PostalCode:        rec.PostalCode,
		TokenVaultID:      rec.TokenVaultID,
		Signature:         rec.Signature,
	}
	if rec.PayeeAlias != nil {
		p.PayeeAlias = &AliasPayload{GUI: rec.PayeeAlias.GUI, Alias: rec.PayeeAlias.Alias, OrgID: rec.PayeeAlias.OrgID}
	}
	if rec.PayerAlias != nil {
		p.PayerAlias = &AliasPayload{GUI: rec.PayerAlias.GUI, Alias: rec.PayerAlias.Alias, OrgID: rec.PayerAlias.OrgID}
	}
	if rec.AdditionalData != nil {
		p.Additional = &AdditionalPayload{
			BillNumber:    rec.AdditionalData.BillNumber,
			MobileNumber:  rec.AdditionalData.MobileNumber,
			StoreLabel:    rec.AdditionalData.StoreLabel,
			Reference:     rec.AdditionalData.ReferenceLabel,
			TerminalLabel: rec.AdditionalData.TerminalLabel,
			Description:   rec.AdditionalData.Description,
		}
	}
	if rec.Purpose != nil {
		p.PurposeCode = rec.Purpose.PurposeCode
	}
	if rec.Transaction != nil {
		p.TransactionID = rec.Transaction.TransactionID
		p.ExpiresAt = rec.Transaction.ExpiresAt
	}
	if rec.Mandate != nil {
		p.Mandate = &MandatePayload{
			Reference:     rec.Mandate.Reference,
			Frequency:     rec.Mandate.Frequency,
			ValidityStart: rec.Mandate.ValidityStart,
			ValidityEnd:   rec.Mandate.ValidityEnd,
			MaxAmount:     rec.Mandate.MaxAmount,
		}
	}
	return p
}

// toAppRequest maps the HTTP body onto a typed generation request.
func (r GenerateRequest) toAppRequest() (appqr.Request, error) {
	kind := appqr.Kind(r.Kind)

	var req appqr.Request
	switch kind {
	case appqr.KindP2PStatic:
		req = appqr.NewP2PStatic(r.PayeeName, r.PayeeCity, r.Alias, r.TokenVaultID)
	case appqr.KindP2PDynamic:
		expiry, err := parseExpiry(r.ExpiresAt)
		if err != nil {
			return appqr.Request{}, err
		}
		req = appqr.NewP2PDynamic(r.PayeeName, r.PayeeCity, r.Alias, r.TokenVaultID, r.Amount, expiry)
	case appqr.KindMerchantStatic:
		req = appqr.NewMerchantStatic(r.PayeeName, r.PayeeCity, r.MerchantCategory, r.Alias, r.TokenVaultID)
	case appqr.KindMerchantDynamic:
		expiry, err := parseExpiry(r.ExpiresAt)
		if err != nil {
			return appqr.Request{}, err
		}
		req = appqr.NewMerchantDynamic(r.PayeeName, r.PayeeCity, r.MerchantCategory, r.Alias, r.TokenVaultID, r.Amount, expiry)
	case appqr.KindATMWithdrawal:
		expiry, err := parseExpiry(r.ExpiresAt)
		if err != nil {
			return appqr.Request{}, err
		}
		req = appqr.NewATMWithdrawal(r.PayeeName, r.PayeeCity, r.Alias, r.TokenVaultID, r.Amount, expiry)
	case appqr.KindVoucher:
		expiry, err := parseExpiry(r.ExpiresAt)
		if err != nil {
			return appqr.Request{}, err
		}
		req = appqr.NewVoucher(r.PayeeName, r.PayeeCity, r.Alias, r.TokenVaultID, r.Amount, expiry)
	case appqr.KindMandate:
		if r.Mandate == nil {
			req = appqr.NewMandate(r.PayeeName, r.PayeeCity, r.Alias, r.TokenVaultID, namqr.Mandate{})
		} else {
			req = appqr.NewMandate(r.PayeeName, r.PayeeCity, r.Alias, r.TokenVaultID, namqr.Mandate{
				Reference:     r.Mandate.Reference,
				Frequency:     r.Mandate.Frequency,
				ValidityStart: r.Mandate.ValidityStart,
				ValidityEnd:   r.Mandate.ValidityEnd,
				MaxAmount:     r.Mandate.MaxAmount,
			})
		}
	default:
		// Let the application layer produce the structured kind error.
		req = appqr.Request{Kind: kind}
	}

	req.CountryCode = r.CountryCode
	req.PostalCode = r.PostalCode
	req.OrgID = r.OrgID
	req.SignatureHex = r.SignatureHex
	if r.Currency != "" {
		req.Currency = r.Currency
	}
	if r.MerchantCategory != "" {
		req.MerchantCategory = r.MerchantCategory
	}
	if r.LegacyAccount != nil {
		req.LegacyPayee = &namqr.LegacyAlias{GUI: r.LegacyAccount.GUI, AccountID: r.LegacyAccount.AccountID}
	}
	if r.Additional != nil {
		req.Additional = &namqr.AdditionalData{
			BillNumber:     r.Additional.BillNumber,
			MobileNumber:   r.Additional.MobileNumber,
			StoreLabel:     r.Additional.StoreLabel,
			ReferenceLabel: r.Additional.Reference,
			TerminalLabel:  r.Additional.TerminalLabel,
			Description:    r.Additional.Description,
		}
	}
	return req, nil
}

func parseExpiry(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
