package rules

import (
	"context"
	"strings"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// requiredFieldValidator checks that a draft field has a value.
type requiredFieldValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	tag       string
	message   string
	extract   func(*invoice.Draft) (value interface{}, display string)
}

func (v *requiredFieldValidator) RuleKey() string  { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string { return v.ruleName }
func (v *requiredFieldValidator) RuleType() domain.ValidationRuleType {
	return domain.ValidationRuleRequired
}
func (v *requiredFieldValidator) Severity() domain.ValidationSeverity {
	return domain.ValidationSeverityError
}

func (v *requiredFieldValidator) Validate(_ context.Context, d *invoice.Draft) []ValidationResult {
	val, display := v.extract(d)
	passed := check(val, v.tag)
	return []ValidationResult{passFail(passed, v.fieldPath, "non-empty value", display, v.message)}
}

// RequiredFieldValidators returns the presence checks for a draft.
func RequiredFieldValidators() []*requiredFieldValidator {
	return []*requiredFieldValidator{
		{
			ruleKey: "req.date", ruleName: "Required: Date", fieldPath: "date",
			tag: "required", message: "La fecha es obligatoria",
			extract: func(d *invoice.Draft) (interface{}, string) {
				return strings.TrimSpace(d.Date), d.Date
			},
		},
		{
			ruleKey: "req.supplier", ruleName: "Required: Supplier", fieldPath: "supplierId",
			tag: "required,gt=0", message: "El proveedor es obligatorio",
			extract: func(d *invoice.Draft) (interface{}, string) {
				if d.SupplierID == nil {
					return int64(0), fmtID(nil)
				}
				return *d.SupplierID, fmtID(d.SupplierID)
			},
		},
	}
}
