package qr

import (
	"fmt"

	"3tcapital/ms_namqr_core/internal/core/crc16"
	"3tcapital/ms_namqr_core/internal/core/namqr"
	"3tcapital/ms_namqr_core/internal/core/tlv"
)

// ParseResult carries everything learned from one scanned string. Success
// is true only when no fatal error was collected; warnings never block.
type ParseResult struct {
	Success  bool
	Record   *namqr.Record
	Errors   []string
	Warnings []string
	RawUnits []tlv.Unit
}

// mandatoryTags are the top-level tags every payload must carry. The CRC
// tag is checked separately through checksum verification.
var mandatoryTags = []struct {
	tag  string
	name string
}{
	{namqr.TagPayloadFormat, "payload format indicator"},
	{namqr.TagPointOfInitiation, "point of initiation method"},
	{namqr.TagMerchantCategory, "merchant category code"},
	{namqr.TagCountryCode, "country code"},
	{namqr.TagPayeeName, "payee name"},
	{namqr.TagPayeeCity, "payee city"},
	{namqr.TagTokenVaultID, "token vault id"},
}

// Parse decodes an arbitrary scanned string into a structured result. Input
// is externally controlled, so every failure path is data in the returned
// lists; Parse never panics. A checksum problem or a missing mandatory tag
// is fatal; a template that fails its own internal decode only costs a
// warning for that template.
func Parse(qrString string) ParseResult {
	units, consumed := tlv.DecodeAllWithRest(qrString)
	res := ParseResult{RawUnits: units}

	// Structural completeness and unit order. DecodeAllWithRest stops at the
	// first undecodable offset; any undecoded remainder means a malformed
	// region inside the payload. Tag 00 opens every serialized string and
	// the checksum unit closes it.
	if consumed != len(qrString) {
		res.Errors = append(res.Errors, fmt.Sprintf("malformed TLV data at offset %d", consumed))
	}
	if len(units) > 0 {
		if units[0].Tag != namqr.TagPayloadFormat {
			res.Errors = append(res.Errors,
				fmt.Sprintf("payload format indicator (tag %s) must be the first unit, got tag %s",
					namqr.TagPayloadFormat, units[0].Tag))
		}
		if units[len(units)-1].Tag != namqr.TagCRC {
			res.Errors = append(res.Errors,
				fmt.Sprintf("checksum (tag %s) must be the final unit, got tag %s",
					namqr.TagCRC, units[len(units)-1].Tag))
		}
	}

	crcRes := crc16.Verify(qrString)
	switch {
	case crcRes.Expected == "":
		res.Errors = append(res.Errors, "checksum unit missing")
	case !crcRes.IsValid:
		res.Errors = append(res.Errors,
			fmt.Sprintf("checksum mismatch: expected %s, got %s", crcRes.Expected, crcRes.Actual))
	}

	values := make(map[string]string, len(res.RawUnits))
	for _, unit := range res.RawUnits {
		values[unit.Tag] = unit.Value
	}

	for _, m := range mandatoryTags {
		if _, ok := values[m.tag]; !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("mandatory field missing: %s (tag %s)", m.name, m.tag))
		}
	}

	if len(qrString) > namqr.SoftMaxPayloadLen {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("payload length %d exceeds recommended maximum %d", len(qrString), namqr.SoftMaxPayloadLen))
	}

	rec := &namqr.Record{
		PayloadFormat:     values[namqr.TagPayloadFormat],
		PointOfInitiation: namqr.PointOfInitiation(values[namqr.TagPointOfInitiation]),
		MerchantCategory:  values[namqr.TagMerchantCategory],
		Currency:          values[namqr.TagCurrency],
		Amount:            values[namqr.TagAmount],
		CountryCode:       values[namqr.TagCountryCode],
		PayeeName:         values[namqr.TagPayeeName],
		PayeeCity:         values[namqr.TagPayeeCity],
		PostalCode:        values[namqr.TagPostalCode],
		TokenVaultID:      values[namqr.TagTokenVaultID],
		Signature:         values[namqr.TagSignature],
		CRC:               values[namqr.TagCRC],
	}

	decodeTemplates(rec, values, &res)

	res.Record = rec
	res.Success = len(res.Errors) == 0
	return res
}

// decodeTemplates decodes each present template independently. Absence of a
// template is never a failure; a present template missing its own mandatory
// sub-fields costs one warning.
func decodeTemplates(rec *namqr.Record, values map[string]string, res *ParseResult) {
	warn := func(tag, what string) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("template %s present but %s", tag, what))
	}

	if v, ok := values[namqr.TagIPPPayeeAlias]; ok {
		if alias, ok := namqr.DecodeAlias(tlv.DecodeNested(v)); ok {
			rec.PayeeAlias = &alias
		} else {
			warn(namqr.TagIPPPayeeAlias, "incomplete: alias scheme and alias are required")
		}
	}
	if v, ok := values[namqr.TagIPPPayerAlias]; ok {
		if alias, ok := namqr.DecodeAlias(tlv.DecodeNested(v)); ok {
			rec.PayerAlias = &alias
		} else {
			warn(namqr.TagIPPPayerAlias, "incomplete: alias scheme and alias are required")
		}
	}
	if v, ok := values[namqr.TagLegacyPayeeAlias]; ok {
		if legacy, ok := namqr.DecodeLegacyAlias(tlv.DecodeNested(v)); ok {
			rec.LegacyPayeeAlias = &legacy
		} else {
			warn(namqr.TagLegacyPayeeAlias, "incomplete: scheme and account are required")
		}
	}
	if v, ok := values[namqr.TagLegacyPayerAlias]; ok {
		if legacy, ok := namqr.DecodeLegacyAlias(tlv.DecodeNested(v)); ok {
			rec.LegacyPayerAlias = &legacy
		} else {
			warn(namqr.TagLegacyPayerAlias, "incomplete: scheme and account are required")
		}
	}
	if v, ok := values[namqr.TagAdditionalData]; ok {
		if data, ok := namqr.DecodeAdditionalData(tlv.DecodeNested(v)); ok {
			rec.AdditionalData = &data
		} else {
			warn(namqr.TagAdditionalData, "carries no recognized sub-fields")
		}
	}
	if v, ok := values[namqr.TagPurposeTemplate]; ok {
		if purpose, ok := namqr.DecodePurposeInfo(tlv.DecodeNested(v)); ok {
			rec.Purpose = &purpose
		} else {
			warn(namqr.TagPurposeTemplate, "missing initiation mode or purpose code")
		}
	}
	if v, ok := values[namqr.TagInvoiceTemplate]; ok {
		if invoice, ok := namqr.DecodeInvoiceInfo(tlv.DecodeNested(v)); ok {
			rec.Invoice = &invoice
		} else {
			warn(namqr.TagInvoiceTemplate, "missing invoice number")
		}
	}
	if v, ok := values[namqr.TagTxnTemplate]; ok {
		if txn, ok := namqr.DecodeTransactionInfo(tlv.DecodeNested(v)); ok {
			rec.Transaction = &txn
		} else {
			warn(namqr.TagTxnTemplate, "missing transaction id")
		}
	}
	if v, ok := values[namqr.TagMandateTemplate]; ok {
		if mandate, ok := namqr.DecodeMandate(tlv.DecodeNested(v)); ok {
			rec.Mandate = &mandate
		} else {
			warn(namqr.TagMandateTemplate, "missing reference or validity dates")
		}
	}
}
