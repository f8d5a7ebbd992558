// Package reconcile merges OCR extraction candidates into invoice drafts.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// LowConfidenceThreshold is the confidence under which a warning is raised.
const LowConfidenceThreshold = 0.7

// Warning codes.
const (
	WarnLowConfidence   = "LOW_CONFIDENCE"
	WarnSupplierMissing = "SUPPLIER_NOT_FOUND"
	WarnIIBBCompensated = "IIBB_COMPENSATED"
	WarnEngineFallback  = "OCR_ENGINE_UNAVAILABLE"
)

// Warning is advisory; it never blocks applying a result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is what applying a candidate to a draft would change.
type Result struct {
	Patch      invoice.Patch          `json:"patch"`
	Supplier   SupplierResolution     `json:"supplier"`
	Warnings   []Warning              `json:"warnings"`
	Confidence invoice.Field[float64] `json:"confidence,omitzero"`
	RawText    string                 `json:"raw_text,omitempty"`
}

// Reconcile builds the draft patch for candidate c. Present fields are copied
// verbatim, the II.BB amount the reader tends to leave at zero is filled in,
// and the supplier is resolved against suppliers in the order given.
// Reconcile is pure: the same inputs always give the same Result.
func Reconcile(c Candidate, suppliers []domain.Supplier) Result {
	res := Result{
		Confidence: c.Confidence,
		RawText:    c.RawText,
		Warnings:   []Warning{},
	}

	p := invoice.Patch{
		Date:         c.Date,
		Type:         c.Type,
		Amount:       c.Amount,
		Amount105:    c.Amount105,
		HasIIBB:      c.HasIIBB,
		VATAmount21:  c.VATAmount21,
		VATAmount105: c.VATAmount105,
		TotalNeto:    c.TotalNeto,
		IIBBAmount:   c.IIBBAmount,
		TotalAmount:  c.TotalAmount,
		Status:       c.Status,
	}

	if compensateIIBB(c, &p) {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnIIBBCompensated,
			Message: fmt.Sprintf("II.BB calculado automáticamente sobre el neto: %s", invoice.FormatARS(p.IIBBAmount.Value)),
		})
	}

	res.Supplier = resolveSupplier(c.Supplier, suppliers)
	switch res.Supplier.Status {
	case SupplierMatched:
		p.SupplierID = invoice.Some(*res.Supplier.SupplierID)
	case SupplierNotFound:
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnSupplierMissing,
			Message: fmt.Sprintf("Proveedor %q no encontrado; puede crearlo o seleccionar uno existente", res.Supplier.SuggestedName),
		})
	}

	if conf, ok := c.Confidence.Get(); ok && conf < LowConfidenceThreshold {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnLowConfidence,
			Message: fmt.Sprintf("Confianza baja (%.0f%%): revise los datos extraídos", conf*100),
		})
	}

	if c.EngineSubstituted != "" {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnEngineFallback,
			Message: fmt.Sprintf("El motor OCR %q no está disponible; se usó el motor predeterminado", c.EngineSubstituted),
		})
	}

	res.Patch = p
	return res
}

// compensateIIBB fills in ii_bb_amount when the reader flagged II.BB but
// reported no amount, and rebuilds total_amount to include it.
func compensateIIBB(c Candidate, p *invoice.Patch) bool {
	if !c.HasIIBB.OrElse(false) {
		return false
	}
	neto, ok := c.TotalNeto.Get()
	if !ok {
		return false
	}
	if current, ok := c.IIBBAmount.Get(); ok && !current.IsZero() {
		return false
	}

	iibb := invoice.IIBBOver(neto)
	total := neto.
		Add(c.VATAmount21.OrElse(decimal.Zero)).
		Add(c.VATAmount105.OrElse(decimal.Zero)).
		Add(iibb)
	p.IIBBAmount = invoice.Some(iibb)
	p.TotalAmount = invoice.Some(total)
	return true
}

// Band buckets a confidence for display.
func Band(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.6:
		return "medium"
	default:
		return "low"
	}
}
