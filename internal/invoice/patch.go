package invoice

import (
	"github.com/shopspring/decimal"

	"facturas/internal/domain"
)

// Patch is a sparse set of draft field updates.
type Patch struct {
	Date         Field[string]               `json:"date,omitzero"`
	Type         Field[domain.InvoiceType]   `json:"type,omitzero"`
	Amount       Field[decimal.Decimal]      `json:"amount,omitzero"`
	Amount105    Field[decimal.Decimal]      `json:"amount_105,omitzero"`
	HasIIBB      Field[bool]                 `json:"has_ii_bb,omitzero"`
	VATAmount21  Field[decimal.Decimal]      `json:"vat_amount_21,omitzero"`
	VATAmount105 Field[decimal.Decimal]      `json:"vat_amount_105,omitzero"`
	TotalNeto    Field[decimal.Decimal]      `json:"total_neto,omitzero"`
	IIBBAmount   Field[decimal.Decimal]      `json:"ii_bb_amount,omitzero"`
	TotalAmount  Field[decimal.Decimal]      `json:"total_amount,omitzero"`
	Status       Field[domain.InvoiceStatus] `json:"status,omitzero"`
	SupplierID   Field[int64]                `json:"supplierId,omitzero"`
}

// TouchesInputs reports whether p sets any field the calculator reads.
func (p *Patch) TouchesInputs() bool {
	return p.Type.Set || p.Amount.Set || p.Amount105.Set || p.HasIIBB.Set
}

// CarriesDerived reports whether p sets any derived amount.
func (p *Patch) CarriesDerived() bool {
	return p.VATAmount21.Set || p.VATAmount105.Set || p.TotalNeto.Set ||
		p.IIBBAmount.Set || p.TotalAmount.Set
}

// Empty reports whether p sets nothing.
func (p *Patch) Empty() bool {
	return !p.TouchesInputs() && !p.CarriesDerived() && !p.Date.Set &&
		!p.Status.Set && !p.SupplierID.Set
}

func (p *Patch) setDerived(d Derived) {
	p.VATAmount21 = Some(d.VATAmount21)
	p.VATAmount105 = Some(d.VATAmount105)
	p.TotalNeto = Some(d.TotalNeto)
	p.IIBBAmount = Some(d.IIBBAmount)
	p.TotalAmount = Some(d.TotalAmount)
}
