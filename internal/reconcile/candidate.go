package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// SupplierHint is the supplier as read off the document.
type SupplierHint struct {
	Name string `json:"name"`
	CUIT string `json:"cuit,omitempty"`
}

// Candidate is an untrusted, sparse set of fields read from an invoice image.
// Any field may be absent.
type Candidate struct {
	Date         invoice.Field[string]               `json:"date,omitzero"`
	Type         invoice.Field[domain.InvoiceType]   `json:"type,omitzero"`
	Amount       invoice.Field[decimal.Decimal]      `json:"amount,omitzero"`
	Amount105    invoice.Field[decimal.Decimal]      `json:"amount_105,omitzero"`
	TotalNeto    invoice.Field[decimal.Decimal]      `json:"total_neto,omitzero"`
	VATAmount21  invoice.Field[decimal.Decimal]      `json:"vat_amount_21,omitzero"`
	VATAmount105 invoice.Field[decimal.Decimal]      `json:"vat_amount_105,omitzero"`
	TotalAmount  invoice.Field[decimal.Decimal]      `json:"total_amount,omitzero"`
	HasIIBB      invoice.Field[bool]                 `json:"has_ii_bb,omitzero"`
	IIBBAmount   invoice.Field[decimal.Decimal]      `json:"ii_bb_amount,omitzero"`
	Status       invoice.Field[domain.InvoiceStatus] `json:"status,omitzero"`
	Supplier     *SupplierHint                       `json:"supplier,omitempty"`
	// Confidence is in [0, 1].
	Confidence invoice.Field[float64] `json:"confidence,omitzero"`
	RawText    string                 `json:"raw_text,omitempty"`
	// EngineSubstituted names the requested OCR engine when the default
	// chain read the image instead.
	EngineSubstituted string `json:"-"`
}

// ExtractionEnvelope is the document-reader response as the OCR providers
// return it. Confidence is a percentage.
type ExtractionEnvelope struct {
	InvoiceData   json.RawMessage `json:"invoiceData"`
	SupplierInfo  *SupplierHint   `json:"supplierInfo,omitempty"`
	Confidence    *float64        `json:"confidence,omitempty"`
	ExtractedText string          `json:"extractedText,omitempty"`
	// EngineSubstituted is set by the engine selector, never by providers.
	EngineSubstituted string `json:"-"`
}

// Normalize turns a reader envelope into a Candidate. The percentage
// confidence is divided by 100 here and nowhere else.
func Normalize(env ExtractionEnvelope) (Candidate, error) {
	var c Candidate
	if len(env.InvoiceData) > 0 && string(env.InvoiceData) != "null" {
		if err := json.Unmarshal(env.InvoiceData, &c); err != nil {
			return Candidate{}, fmt.Errorf("decoding invoice data: %w", err)
		}
	}
	// invoiceData may carry its own confidence or raw text; the envelope wins.
	c.Confidence = invoice.Field[float64]{}
	if env.Confidence != nil {
		c.Confidence = invoice.Some(clamp01(*env.Confidence / 100))
	}
	c.RawText = env.ExtractedText
	c.EngineSubstituted = env.EngineSubstituted
	if env.SupplierInfo != nil {
		hint := *env.SupplierInfo
		c.Supplier = &hint
	}
	return c, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
