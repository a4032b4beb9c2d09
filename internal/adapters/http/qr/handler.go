// Package qr exposes the codec use cases over HTTP: generation, parsing,
// layered validation, token vault lookups and voucher batches.
package qr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appqr "3tcapital/ms_namqr_core/internal/application/qr"
	"3tcapital/ms_namqr_core/internal/core/namqr"
	"3tcapital/ms_namqr_core/internal/core/vault"
	httperrors "3tcapital/ms_namqr_core/internal/infrastructure/http"
	"3tcapital/ms_namqr_core/internal/infrastructure/security"
)

// maxVoucherBatchSize bounds one disbursement request.
const maxVoucherBatchSize = 1000

// Handler bridges HTTP traffic with the QR application service.
type Handler struct {
	service      *appqr.Service
	vaultTimeout time.Duration
	log          *slog.Logger
}

// NewHandler creates a new QR HTTP handler. vaultTimeout bounds the external
// consistency call made during validation.
func NewHandler(service *appqr.Service, vaultTimeout time.Duration, log *slog.Logger) *Handler {
	return &Handler{service: service, vaultTimeout: vaultTimeout, log: log}
}

// Routes wires the codec endpoints onto a fresh sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/generate", h.Generate)
	r.Post("/parse", h.Parse)
	r.Post("/validate", h.Validate)
	return r
}

// VaultRoutes wires the token vault lookup endpoint.
func (h *Handler) VaultRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{tokenId}", h.Lookup)
	return r
}

// VoucherRoutes wires the batch voucher endpoint.
func (h *Handler) VoucherRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/generate", h.GenerateVouchers)
	return r
}

// Generate handles POST /api/v1/qr/generate requests.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var reqBody GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		httperrors.WriteValidationError(w, []string{"request body is not valid JSON"}, h.log)
		return
	}

	if reqBody.Kind == "" {
		httperrors.WriteValidationError(w, []string{"kind is required"}, h.log)
		return
	}

	appReq, err := reqBody.toAppRequest()
	if err != nil {
		httperrors.WriteValidationError(w, []string{"expiresAt must be RFC 3339: " + err.Error()}, h.log)
		return
	}

	qrString, err := h.service.Generate(r.Context(), appReq)
	if err != nil {
		h.handleGenerateError(w, err)
		return
	}

	alias := appReq.AliasGUI
	if alias == "" {
		alias = appReq.IPPAlias
	}
	h.log.Info("qr generated",
		"kind", reqBody.Kind,
		"token_id", security.MaskTokenID(appReq.TokenVaultID),
		"alias", security.MaskAlias(alias),
	)

	var response GenerateResponse
	response.Status = "200"
	response.Message = "Success"
	response.Data.QRString = qrString
	response.Data.TokenVaultID = appReq.TokenVaultID
	response.Data.TransactionID = appReq.TransactionID

	writeJSON(w, http.StatusOK, response, h.log)
}

// Parse handles POST /api/v1/qr/parse requests.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var reqBody ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		httperrors.WriteValidationError(w, []string{"request body is not valid JSON"}, h.log)
		return
	}
	if reqBody.QRString == "" {
		httperrors.WriteValidationError(w, []string{"qrString is required"}, h.log)
		return
	}

	result := h.service.Parse(reqBody.QRString)

	response := ParseResponse{
		Status:   "200",
		Message:  "Success",
		Success:  result.Success,
		Errors:   emptyIfNil(result.Errors),
		Warnings: emptyIfNil(result.Warnings),
		Data:     toRecordPayload(result.Record),
	}

	// A malformed payload is a domain outcome, not a transport failure; the
	// decode result always travels on a 200.
	writeJSON(w, http.StatusOK, response, h.log)
}

// Validate handles POST /api/v1/qr/validate requests.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var reqBody ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		httperrors.WriteValidationError(w, []string{"request body is not valid JSON"}, h.log)
		return
	}
	if reqBody.QRString == "" {
		httperrors.WriteValidationError(w, []string{"qrString is required"}, h.log)
		return
	}

	result := h.service.Validate(r.Context(), reqBody.QRString, appqr.ValidateOptions{
		SkipVaultCheck: reqBody.SkipVaultCheck,
		VaultTimeout:   h.vaultTimeout,
	})

	response := ValidateResponse{
		Status:   "200",
		Message:  "Success",
		Accepted: result.Accepted,
		Errors:   emptyIfNil(result.Errors),
		Warnings: emptyIfNil(result.Warnings),
		Data:     toRecordPayload(result.Record),
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// Lookup handles GET /api/v1/vault/{tokenId} requests.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "tokenId")
	if !namqr.ValidTokenVaultID(tokenID) {
		httperrors.WriteValidationError(w, []string{"tokenId must be 6 to 12 digits"}, h.log)
		return
	}

	entry, err := h.service.Lookup(r.Context(), tokenID)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			httperrors.WriteError(w, http.StatusNotFound, "Not Found", []string{"no vault entry for token " + tokenID}, h.log)
			return
		}
		h.log.Error("vault lookup failed", "token_id", tokenID, "error", err)
		httperrors.WriteError(w, http.StatusBadGateway, "Vault Error", []string{"token vault unavailable"}, h.log)
		return
	}

	var response VaultEntryResponse
	response.Status = "200"
	response.Message = "Success"
	response.Data.TokenVaultID = entry.TokenID
	response.Data.PayeeName = entry.PayeeName
	response.Data.PayeeCity = entry.PayeeCity
	response.Data.MerchantCategory = entry.MerchantCategory
	response.Data.Amount = entry.Amount
	response.Data.Currency = entry.Currency
	response.Data.Alias = entry.Alias
	response.Data.CreatedAt = entry.CreatedAt.Format(time.RFC3339)

	writeJSON(w, http.StatusOK, response, h.log)
}

// GenerateVouchers handles POST /api/v1/vouchers/generate requests.
func (h *Handler) GenerateVouchers(w http.ResponseWriter, r *http.Request) {
	var reqBody VoucherBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		httperrors.WriteValidationError(w, []string{"request body is not valid JSON"}, h.log)
		return
	}
	if len(reqBody.Vouchers) == 0 {
		httperrors.WriteValidationError(w, []string{"vouchers must not be empty"}, h.log)
		return
	}
	if len(reqBody.Vouchers) > maxVoucherBatchSize {
		httperrors.WriteValidationError(w, []string{"a batch may not exceed 1000 vouchers"}, h.log)
		return
	}

	requests := make([]appqr.Request, 0, len(reqBody.Vouchers))
	for i, v := range reqBody.Vouchers {
		expiry, err := parseExpiry(v.ExpiresAt)
		if err != nil {
			httperrors.WriteValidationError(w, []string{fmt.Sprintf("vouchers[%d].expiresAt must be RFC 3339", i)}, h.log)
			return
		}
		requests = append(requests, appqr.NewVoucher(v.BeneficiaryName, v.BeneficiaryCity, v.WalletAlias, v.TokenVaultID, v.Value, expiry))
	}

	results := h.service.GenerateVouchers(r.Context(), requests, reqBody.Workers)

	response := VoucherBatchResponse{
		Status:  "200",
		Message: "Success",
		Total:   len(results),
		Results: make([]VoucherResultPayload, 0, len(results)),
	}
	for _, res := range results {
		payload := VoucherResultPayload{
			Index:        res.Index,
			TokenVaultID: res.TokenID,
			QRString:     res.Payload,
		}
		if res.Err != nil {
			payload.Error = res.Err.Error()
			response.Failed++
		} else {
			response.Succeeded++
		}
		response.Results = append(response.Results, payload)
	}

	h.log.Info("voucher batch completed",
		"total", response.Total, "succeeded", response.Succeeded, "failed", response.Failed)

	writeJSON(w, http.StatusOK, response, h.log)
}

// handleGenerateError maps generation errors to HTTP responses. Structured
// validation errors carry per-field details; anything else is internal.
func (h *Handler) handleGenerateError(w http.ResponseWriter, err error) {
	var verrs namqr.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			details = append(details, ve.Error())
		}
		httperrors.WriteValidationError(w, details, h.log)
		return
	}

	h.log.Error("generation failed", "error", err)
	httperrors.WriteError(w, http.StatusInternalServerError, "Internal Server Error", []string{"an internal error occurred"}, h.log)
}

func writeJSON(w http.ResponseWriter, status int, payload any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && log != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
