package rules

import (
	"context"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	name     string
	ruleType domain.ValidationRuleType
	sev      domain.ValidationSeverity
	fn       func(context.Context, *invoice.Draft) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, d *invoice.Draft) []ValidationResult {
	return b.fn(ctx, d)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleName() string                    { return b.name }
func (b *BuiltinValidator) RuleType() domain.ValidationRuleType { return b.ruleType }
func (b *BuiltinValidator) Severity() domain.ValidationSeverity { return b.sev }

type rule interface {
	Validate(context.Context, *invoice.Draft) []ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
}

func wrap(v rule) *BuiltinValidator {
	return &BuiltinValidator{
		key: v.RuleKey(), name: v.RuleName(),
		ruleType: v.RuleType(), sev: v.Severity(),
		fn: v.Validate,
	}
}

// AllBuiltinValidators returns every draft rule, blocking checks first.
func AllBuiltinValidators() []*BuiltinValidator {
	var all []*BuiltinValidator
	for _, v := range RequiredFieldValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range FormatValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range RangeValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range EnumValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range LogicalValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range MathValidators() {
		all = append(all, wrap(v))
	}
	return all
}
