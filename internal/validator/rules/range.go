package rules

import (
	"context"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// rangeValidator checks that an amount is positive or non-negative.
type rangeValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	tag       string
	expected  string
	message   string
	extract   func(*invoice.Draft) decimal.Decimal
}

func (v *rangeValidator) RuleKey() string                     { return v.ruleKey }
func (v *rangeValidator) RuleName() string                    { return v.ruleName }
func (v *rangeValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleRange }
func (v *rangeValidator) Severity() domain.ValidationSeverity { return domain.ValidationSeverityError }

func (v *rangeValidator) Validate(_ context.Context, d *invoice.Draft) []ValidationResult {
	val := v.extract(d)
	return []ValidationResult{passFail(check(val, v.tag), v.fieldPath, v.expected, fmtd(val), v.message)}
}

func positive(key, name, field, msg string, extract func(*invoice.Draft) decimal.Decimal) *rangeValidator {
	return &rangeValidator{ruleKey: key, ruleName: name, fieldPath: field, tag: "gt=0", expected: "> 0", message: msg, extract: extract}
}

func nonNegative(key, name, field, msg string, extract func(*invoice.Draft) decimal.Decimal) *rangeValidator {
	return &rangeValidator{ruleKey: key, ruleName: name, fieldPath: field, tag: "gte=0", expected: ">= 0", message: msg, extract: extract}
}

// RangeValidators returns the amount range checks for a draft.
func RangeValidators() []*rangeValidator {
	return []*rangeValidator{
		positive("range.amount", "Range: Amount", "amount", "El importe debe ser mayor a cero",
			func(d *invoice.Draft) decimal.Decimal { return d.Amount }),
		nonNegative("range.amount_105", "Range: Amount 10.5%", "amount_105", "El importe al 10,5% no puede ser negativo",
			func(d *invoice.Draft) decimal.Decimal { return d.Amount105 }),
		positive("range.total_neto", "Range: Total Neto", "total_neto", "El total neto debe ser mayor a cero",
			func(d *invoice.Draft) decimal.Decimal { return d.TotalNeto }),
		positive("range.total_amount", "Range: Total Amount", "total_amount", "El total debe ser mayor a cero",
			func(d *invoice.Draft) decimal.Decimal { return d.TotalAmount }),
		nonNegative("range.vat_amount_21", "Range: VAT 21%", "vat_amount_21", "El IVA 21% no puede ser negativo",
			func(d *invoice.Draft) decimal.Decimal { return d.VATAmount21 }),
		nonNegative("range.vat_amount_105", "Range: VAT 10.5%", "vat_amount_105", "El IVA 10,5% no puede ser negativo",
			func(d *invoice.Draft) decimal.Decimal { return d.VATAmount105 }),
		nonNegative("range.ii_bb_amount", "Range: II.BB", "ii_bb_amount", "El importe de II.BB no puede ser negativo",
			func(d *invoice.Draft) decimal.Decimal { return d.IIBBAmount }),
	}
}
