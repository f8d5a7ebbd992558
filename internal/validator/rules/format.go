package rules

import (
	"context"
	"strings"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// formatValidator checks the shape of a non-empty field. Empty values are
// left to the required checks.
type formatValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	tag       string
	expected  string
	message   string
	extract   func(*invoice.Draft) string
}

func (v *formatValidator) RuleKey() string                     { return v.ruleKey }
func (v *formatValidator) RuleName() string                    { return v.ruleName }
func (v *formatValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleFormat }
func (v *formatValidator) Severity() domain.ValidationSeverity { return domain.ValidationSeverityError }

func (v *formatValidator) Validate(_ context.Context, d *invoice.Draft) []ValidationResult {
	val := strings.TrimSpace(v.extract(d))
	if val == "" {
		return nil
	}
	return []ValidationResult{passFail(check(val, v.tag), v.fieldPath, v.expected, val, v.message)}
}

// FormatValidators returns the format checks for a draft.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "fmt.date", ruleName: "Format: Date", fieldPath: "date",
			tag: "datetime=" + invoice.DateLayout, expected: "YYYY-MM-DD",
			message: "La fecha debe tener el formato AAAA-MM-DD",
			extract: func(d *invoice.Draft) string { return d.Date },
		},
	}
}
