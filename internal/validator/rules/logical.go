package rules

import (
	"context"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// logicalValidator checks type-dependent constraints.
type logicalValidator struct {
	ruleKey  string
	ruleName string
	severity domain.ValidationSeverity
	validate func(*invoice.Draft) []ValidationResult
}

func (v *logicalValidator) RuleKey() string                     { return v.ruleKey }
func (v *logicalValidator) RuleName() string                    { return v.ruleName }
func (v *logicalValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleLogical }
func (v *logicalValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *logicalValidator) Validate(_ context.Context, d *invoice.Draft) []ValidationResult {
	return v.validate(d)
}

// LogicalValidators returns the logical checks for a draft.
func LogicalValidators() []*logicalValidator {
	return []*logicalValidator{
		{
			ruleKey: "logic.type_x.no_105", ruleName: "Logical: Type X Has No 10.5% Amount",
			severity: domain.ValidationSeverityError,
			validate: func(d *invoice.Draft) []ValidationResult {
				if d.Type != domain.InvoiceTypeX {
					return nil
				}
				return []ValidationResult{passFail(d.Amount105.IsZero(), "amount_105", "0", fmtd(d.Amount105),
					"Las facturas tipo X no llevan importe al 10,5%")}
			},
		},
		{
			ruleKey: "logic.type_x.no_iibb", ruleName: "Logical: Type X Has No II.BB",
			severity: domain.ValidationSeverityError,
			validate: func(d *invoice.Draft) []ValidationResult {
				if d.Type != domain.InvoiceTypeX {
					return nil
				}
				passed := !d.HasIIBB && d.IIBBAmount.IsZero()
				actual := "false"
				if d.HasIIBB {
					actual = "true"
				}
				return []ValidationResult{passFail(passed, "has_ii_bb", "false", actual,
					"Las facturas tipo X no llevan retención de II.BB")}
			},
		},
	}
}
