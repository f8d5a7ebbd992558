package rules_test

import (
	"time"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// validDraft returns a type A draft that passes every rule.
func validDraft() *invoice.Draft {
	d := invoice.NewDraft(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	d.SetType(domain.InvoiceTypeA)
	d.SetAmount(dec("1000"))
	d.SetAmount105(dec("500"))
	d.SetHasIIBB(true)
	supplierID := int64(7)
	d.SupplierID = &supplierID
	return d
}
