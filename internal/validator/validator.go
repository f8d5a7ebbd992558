package validator

import (
	"context"

	"facturas/internal/domain"
	"facturas/internal/invoice"
	"facturas/internal/validator/rules"
)

// Validator is the interface for a single built-in draft rule.
type Validator interface {
	Validate(ctx context.Context, d *invoice.Draft) []rules.ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
}
