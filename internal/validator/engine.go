package validator

import (
	"context"

	"github.com/rs/zerolog"

	"facturas/internal/domain"
	"facturas/internal/invoice"
)

// Engine runs every registered rule against a draft.
type Engine struct {
	registry *Registry
	log      zerolog.Logger
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, log zerolog.Logger) *Engine {
	return &Engine{registry: registry, log: log}
}

// Report is the outcome of validating one draft. Errors and Warnings map a
// field name to the first failing message for it.
type Report struct {
	Valid         bool                    `json:"valid"`
	Errors        map[string]string       `json:"errors"`
	Warnings      map[string]string       `json:"warnings"`
	Summary       ValidationSummary       `json:"summary"`
	Results       []ValidationResultItem  `json:"results"`
	FieldStatuses map[string]*FieldStatus `json:"field_statuses"`
}

// ValidationSummary holds aggregate counts of validation results.
type ValidationSummary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// ValidationResultItem is a single rule outcome.
type ValidationResultItem struct {
	RuleKey       string                    `json:"rule_key"`
	RuleName      string                    `json:"rule_name"`
	RuleType      domain.ValidationRuleType `json:"rule_type"`
	Severity      domain.ValidationSeverity `json:"severity"`
	Passed        bool                      `json:"passed"`
	FieldPath     string                    `json:"field_path"`
	ExpectedValue string                    `json:"expected_value"`
	ActualValue   string                    `json:"actual_value"`
	Message       string                    `json:"message,omitempty"`
}

// Validate runs every rule; nothing short-circuits, so all problems are
// reported together. confidence maps field names to extraction confidence
// and may be nil.
func (e *Engine) Validate(ctx context.Context, d *invoice.Draft, confidence map[string]float64) *Report {
	report := &Report{
		Errors:   map[string]string{},
		Warnings: map[string]string{},
		Results:  []ValidationResultItem{},
	}

	for _, v := range e.registry.All() {
		for _, vr := range v.Validate(ctx, d) {
			item := ValidationResultItem{
				RuleKey:       v.RuleKey(),
				RuleName:      v.RuleName(),
				RuleType:      v.RuleType(),
				Severity:      v.Severity(),
				Passed:        vr.Passed,
				FieldPath:     vr.FieldPath,
				ExpectedValue: vr.ExpectedValue,
				ActualValue:   vr.ActualValue,
				Message:       vr.Message,
			}
			report.Results = append(report.Results, item)

			if vr.Passed {
				report.Summary.Passed++
				continue
			}
			target := report.Warnings
			if v.Severity() == domain.ValidationSeverityError {
				target = report.Errors
				report.Summary.Errors++
			} else {
				report.Summary.Warnings++
			}
			if _, seen := target[vr.FieldPath]; !seen {
				target[vr.FieldPath] = vr.Message
			}
		}
	}

	report.Summary.Total = len(report.Results)
	report.Valid = len(report.Errors) == 0
	report.FieldStatuses = ComputeFieldStatuses(report.Results, confidence)

	e.log.Debug().
		Bool("valid", report.Valid).
		Int("errors", report.Summary.Errors).
		Int("warnings", report.Summary.Warnings).
		Msg("draft validated")
	return report
}

// Check validates d and returns domain.FieldErrors when an error-severity
// rule fails.
func (e *Engine) Check(ctx context.Context, d *invoice.Draft) error {
	report := e.Validate(ctx, d, nil)
	if report.Valid {
		return nil
	}
	return domain.FieldErrors(report.Errors)
}
