package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
)

// DateLayout is the ISO calendar date layout used for invoice dates.
const DateLayout = "2006-01-02"

// Draft is the editable, not yet persisted form of an invoice.
// Setters keep the derived amounts in step with the inputs.
type Draft struct {
	Date      string               `json:"date"`
	Type      domain.InvoiceType   `json:"type"`
	Amount    decimal.Decimal      `json:"amount"`
	Amount105 decimal.Decimal      `json:"amount_105"`
	HasIIBB   bool                 `json:"has_ii_bb"`
	Status    domain.InvoiceStatus `json:"status"`
	// nil until a supplier is chosen or resolved from an extraction.
	SupplierID *int64 `json:"supplierId"`

	Derived
}

// NewDraft returns an empty type X draft dated today, waiting to be paid.
func NewDraft(today time.Time) *Draft {
	d := &Draft{
		Date:   today.Format(DateLayout),
		Type:   domain.InvoiceTypeX,
		Status: domain.InvoiceStatusToPay,
	}
	d.Recalculate()
	return d
}

// DraftFromInvoice loads a persisted invoice for editing. Stored derived
// amounts are kept until an input changes.
func DraftFromInvoice(inv *domain.Invoice) *Draft {
	supplierID := inv.SupplierID
	d := &Draft{
		Date:      inv.Date,
		Type:      inv.Type,
		Amount:    inv.Amount,
		Amount105: inv.Amount105,
		HasIIBB:   inv.HasIIBB,
		Status:    inv.Status,
		Derived: Derived{
			VATAmount21:  inv.VATAmount21,
			VATAmount105: inv.VATAmount105,
			TotalNeto:    inv.TotalNeto,
			IIBBAmount:   inv.IIBBAmount,
			TotalAmount:  inv.TotalAmount,
		},
	}
	if supplierID != 0 {
		d.SupplierID = &supplierID
	}
	return d
}

// Inputs returns the calculator inputs of d.
func (d *Draft) Inputs() Inputs {
	return Inputs{Type: d.Type, Amount: d.Amount, Amount105: d.Amount105, HasIIBB: d.HasIIBB}
}

// Recalculate refreshes the derived amounts from the current inputs.
func (d *Draft) Recalculate() {
	d.Derived = Recompute(d.Inputs())
}

// SetType switches the invoice type, applying the type X resets.
func (d *Draft) SetType(t domain.InvoiceType) {
	d.Apply(OnTypeChange(t, d))
}

// SetAmount sets the 21% base amount.
func (d *Draft) SetAmount(v decimal.Decimal) {
	d.Amount = v
	d.Recalculate()
}

// SetAmount105 sets the 10.5% base amount.
func (d *Draft) SetAmount105(v decimal.Decimal) {
	d.Amount105 = v
	d.Recalculate()
}

// SetHasIIBB toggles the II.BB withholding.
func (d *Draft) SetHasIIBB(v bool) {
	d.HasIIBB = v
	d.Recalculate()
}

// Apply copies every set field of p onto d. The derived amounts are
// recomputed when p sets a base amount, or when it changes another input
// without carrying derived amounts of its own. A reconciled patch that only
// brings derived amounts (total_neto, ii_bb_amount, ...) is kept verbatim.
// A type X draft never keeps amount_105 or has_ii_bb, whatever p contains.
func (d *Draft) Apply(p Patch) {
	if v, ok := p.Date.Get(); ok {
		d.Date = v
	}
	if v, ok := p.Type.Get(); ok {
		d.Type = v
	}
	if v, ok := p.Amount.Get(); ok {
		d.Amount = v
	}
	if v, ok := p.Amount105.Get(); ok {
		d.Amount105 = v
	}
	if v, ok := p.HasIIBB.Get(); ok {
		d.HasIIBB = v
	}
	if v, ok := p.VATAmount21.Get(); ok {
		d.VATAmount21 = v
	}
	if v, ok := p.VATAmount105.Get(); ok {
		d.VATAmount105 = v
	}
	if v, ok := p.TotalNeto.Get(); ok {
		d.TotalNeto = v
	}
	if v, ok := p.IIBBAmount.Get(); ok {
		d.IIBBAmount = v
	}
	if v, ok := p.TotalAmount.Get(); ok {
		d.TotalAmount = v
	}
	if v, ok := p.Status.Get(); ok {
		d.Status = v
	}
	if v, ok := p.SupplierID.Get(); ok {
		id := v
		d.SupplierID = &id
	}

	recalc := p.Amount.Set || p.Amount105.Set || (p.TouchesInputs() && !p.CarriesDerived())

	if d.Type == domain.InvoiceTypeX {
		if !d.Amount105.IsZero() || d.HasIIBB {
			d.Amount105 = decimal.Zero
			d.HasIIBB = false
			if !p.TotalNeto.Set {
				recalc = true
			}
		}
		if !recalc {
			d.collapseTaxes()
		}
	}

	if recalc {
		d.Recalculate()
	}
}

// collapseTaxes clears the type A only amounts, keeping total_neto.
func (d *Draft) collapseTaxes() {
	d.VATAmount21 = decimal.Zero
	d.VATAmount105 = decimal.Zero
	d.IIBBAmount = decimal.Zero
	d.TotalAmount = d.TotalNeto
}

// Clone returns a deep copy of d.
func (d *Draft) Clone() *Draft {
	c := *d
	if d.SupplierID != nil {
		id := *d.SupplierID
		c.SupplierID = &id
	}
	return &c
}

// ToInvoice converts d into an invoice ready to persist, rounding every
// amount to cents. Callers validate d first.
func (d *Draft) ToInvoice() *domain.Invoice {
	inv := &domain.Invoice{
		Date:         d.Date,
		Type:         d.Type,
		Amount:       RoundCents(d.Amount),
		Amount105:    RoundCents(d.Amount105),
		VATAmount21:  RoundCents(d.VATAmount21),
		VATAmount105: RoundCents(d.VATAmount105),
		TotalNeto:    RoundCents(d.TotalNeto),
		HasIIBB:      d.HasIIBB,
		IIBBAmount:   RoundCents(d.IIBBAmount),
		TotalAmount:  RoundCents(d.TotalAmount),
		Status:       d.Status,
	}
	if d.SupplierID != nil {
		inv.SupplierID = *d.SupplierID
	}
	return inv
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
