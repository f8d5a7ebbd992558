package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"facturas/internal/domain"
	"facturas/internal/validator"
)

func TestComputeFieldStatuses_AllPassed(t *testing.T) {
	results := []validator.ValidationResultItem{
		{Passed: true, FieldPath: "date", Severity: domain.ValidationSeverityError},
		{Passed: true, FieldPath: "amount", Severity: domain.ValidationSeverityError},
	}

	statuses := validator.ComputeFieldStatuses(results, nil)

	assert.Equal(t, domain.FieldStatusValid, statuses["date"].Status)
	assert.Equal(t, domain.FieldStatusValid, statuses["amount"].Status)
	assert.Empty(t, statuses["date"].Messages)
}

func TestComputeFieldStatuses_ErrorWinsOverWarning(t *testing.T) {
	results := []validator.ValidationResultItem{
		{Passed: false, FieldPath: "total_amount", Severity: domain.ValidationSeverityWarning, Message: "mismatch"},
		{Passed: false, FieldPath: "total_amount", Severity: domain.ValidationSeverityError, Message: "El total debe ser mayor a cero"},
	}

	statuses := validator.ComputeFieldStatuses(results, nil)

	assert.Equal(t, domain.FieldStatusInvalid, statuses["total_amount"].Status)
	assert.Equal(t, []string{"mismatch", "El total debe ser mayor a cero"}, statuses["total_amount"].Messages)
}

func TestComputeFieldStatuses_Confidence(t *testing.T) {
	results := []validator.ValidationResultItem{
		{Passed: true, FieldPath: "amount", Severity: domain.ValidationSeverityError},
	}
	confidence := map[string]float64{"amount": 0.4, "date": 0.9, "type": 0.5}

	statuses := validator.ComputeFieldStatuses(results, confidence)

	assert.Equal(t, domain.FieldStatusUnsure, statuses["amount"].Status)
	assert.Equal(t, domain.FieldStatusValid, statuses["date"].Status)
	assert.Equal(t, domain.FieldStatusUnsure, statuses["type"].Status)
}
