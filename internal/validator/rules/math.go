package rules

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

var mathTolerance = decimal.RequireFromString("0.01")

// mathValidator checks that stored derived amounts agree with the inputs.
// Extracted drafts can carry amounts read off the document; a mismatch is
// worth a warning but does not block submission.
type mathValidator struct {
	ruleKey  string
	ruleName string
	validate func(*invoice.Draft) []ValidationResult
}

func (v *mathValidator) RuleKey() string                     { return v.ruleKey }
func (v *mathValidator) RuleName() string                    { return v.ruleName }
func (v *mathValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleSumCheck }
func (v *mathValidator) Severity() domain.ValidationSeverity { return domain.ValidationSeverityWarning }

func (v *mathValidator) Validate(_ context.Context, d *invoice.Draft) []ValidationResult {
	return v.validate(d)
}

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(mathTolerance)
}

func mathResult(fieldPath, ruleName string, expected, actual decimal.Decimal) ValidationResult {
	passed := approxEqual(expected, actual)
	return passFail(passed, fieldPath, fmtd(expected), fmtd(actual),
		fmt.Sprintf("%s: el cálculo de %s no coincide (esperado %s, obtenido %s)", ruleName, fieldPath, fmtd(expected), fmtd(actual)))
}

func derivedCheck(key, name, field string, pick func(invoice.Derived) decimal.Decimal) *mathValidator {
	return &mathValidator{
		ruleKey: key, ruleName: name,
		validate: func(d *invoice.Draft) []ValidationResult {
			want := pick(invoice.Recompute(d.Inputs()))
			return []ValidationResult{mathResult(field, name, want, pick(d.Derived))}
		},
	}
}

// MathValidators returns the derived amount consistency checks.
func MathValidators() []*mathValidator {
	return []*mathValidator{
		derivedCheck("math.vat_amount_21", "Math: VAT 21%", "vat_amount_21",
			func(x invoice.Derived) decimal.Decimal { return x.VATAmount21 }),
		derivedCheck("math.vat_amount_105", "Math: VAT 10.5%", "vat_amount_105",
			func(x invoice.Derived) decimal.Decimal { return x.VATAmount105 }),
		derivedCheck("math.total_neto", "Math: Total Neto", "total_neto",
			func(x invoice.Derived) decimal.Decimal { return x.TotalNeto }),
		derivedCheck("math.ii_bb_amount", "Math: II.BB", "ii_bb_amount",
			func(x invoice.Derived) decimal.Decimal { return x.IIBBAmount }),
		{
			ruleKey: "math.total_amount", ruleName: "Math: Total Amount",
			validate: func(d *invoice.Draft) []ValidationResult {
				// the grand total must add up from whatever derived amounts the draft holds
				want := d.TotalNeto.Add(d.VATAmount21).Add(d.VATAmount105).Add(d.IIBBAmount)
				return []ValidationResult{mathResult("total_amount", "Math: Total Amount", want, d.TotalAmount)}
			},
		},
	}
}
