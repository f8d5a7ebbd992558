package rules

import (
	"context"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// enumValidator checks that a field holds one of a fixed set of values.
type enumValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	tag       string
	expected  string
	message   string
	extract   func(*invoice.Draft) string
}

func (v *enumValidator) RuleKey() string                     { return v.ruleKey }
func (v *enumValidator) RuleName() string                    { return v.ruleName }
func (v *enumValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleEnum }
func (v *enumValidator) Severity() domain.ValidationSeverity { return domain.ValidationSeverityError }

func (v *enumValidator) Validate(_ context.Context, d *invoice.Draft) []ValidationResult {
	val := v.extract(d)
	return []ValidationResult{passFail(check(val, v.tag), v.fieldPath, v.expected, val, v.message)}
}

// EnumValidators returns the type and status checks for a draft.
func EnumValidators() []*enumValidator {
	return []*enumValidator{
		{
			ruleKey: "enum.type", ruleName: "Enum: Invoice Type", fieldPath: "type",
			tag: "oneof=A X", expected: "A | X", message: "El tipo de factura debe ser A o X",
			extract: func(d *invoice.Draft) string { return string(d.Type) },
		},
		{
			ruleKey: "enum.status", ruleName: "Enum: Status", fieldPath: "status",
			tag: "oneof=to_pay prepared paid", expected: "to_pay | prepared | paid",
			message: "El estado debe ser to_pay, prepared o paid",
			extract: func(d *invoice.Draft) string { return string(d.Status) },
		},
	}
}
