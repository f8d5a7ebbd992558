package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationResult is the outcome of one rule against one field.
type ValidationResult struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

func passFail(passed bool, fieldPath, expected, actual, failMsg string) ValidationResult {
	msg := ""
	if !passed {
		msg = failMsg
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: actual, Message: msg,
	}
}

func fmtd(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func fmtID(id *int64) string {
	if id == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *id)
}
