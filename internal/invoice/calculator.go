package invoice

import (
	"github.com/shopspring/decimal"

	"facturas/internal/domain"
)

// Tax rates applied to type A invoices.
var (
	RateVAT21  = decimal.RequireFromString("0.21")
	RateVAT105 = decimal.RequireFromString("0.105")
	RateIIBB   = decimal.RequireFromString("0.04")
)

// Inputs are the user-editable amounts every derived amount depends on.
type Inputs struct {
	Type      domain.InvoiceType
	Amount    decimal.Decimal
	Amount105 decimal.Decimal
	HasIIBB   bool
}

// Derived holds the amounts computed from Inputs.
type Derived struct {
	VATAmount21  decimal.Decimal `json:"vat_amount_21"`
	VATAmount105 decimal.Decimal `json:"vat_amount_105"`
	TotalNeto    decimal.Decimal `json:"total_neto"`
	IIBBAmount   decimal.Decimal `json:"ii_bb_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// Recompute derives VAT, net total, II.BB withholding and grand total.
// Only type A carries VAT and II.BB; every other type collapses them to zero.
// Nothing is rounded here.
func Recompute(in Inputs) Derived {
	var d Derived
	taxed := in.Type == domain.InvoiceTypeA

	if taxed {
		d.VATAmount21 = in.Amount.Mul(RateVAT21)
		d.VATAmount105 = in.Amount105.Mul(RateVAT105)
	}
	d.TotalNeto = in.Amount.Add(in.Amount105)
	// II.BB is withheld over the whole net total, not just the 21% base.
	if taxed && in.HasIIBB {
		d.IIBBAmount = d.TotalNeto.Mul(RateIIBB)
	}
	d.TotalAmount = d.TotalNeto.Add(d.VATAmount21).Add(d.VATAmount105).Add(d.IIBBAmount)
	return d
}

// IIBBOver returns the II.BB withholding for a given net total.
func IIBBOver(totalNeto decimal.Decimal) decimal.Decimal {
	return totalNeto.Mul(RateIIBB)
}

// OnTypeChange returns the patch that switching d to newType produces.
// Switching to X zeroes amount_105 and clears has_ii_bb. Switching back to A
// restores neither.
func OnTypeChange(newType domain.InvoiceType, d *Draft) Patch {
	in := d.Inputs()
	in.Type = newType

	p := Patch{Type: Some(newType)}
	if newType == domain.InvoiceTypeX {
		in.Amount105 = decimal.Zero
		in.HasIIBB = false
		p.Amount105 = Some(decimal.Zero)
		p.HasIIBB = Some(false)
	}
	p.setDerived(Recompute(in))
	return p
}
