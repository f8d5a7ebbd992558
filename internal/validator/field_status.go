package validator

import (
	"facturas/internal/domain"
)

// UnsureConfidence is the extraction confidence at or below which a field
// without rule results is flagged unsure.
const UnsureConfidence = 0.5

// FieldStatus represents the computed validation state for a single field.
type FieldStatus struct {
	Status   domain.FieldValidationStatus `json:"status"`
	Messages []string                     `json:"messages"`
}

// ComputeFieldStatuses derives per-field statuses from rule results and
// extraction confidence. A failing error rule makes a field invalid, a
// failing warning makes it unsure.
func ComputeFieldStatuses(results []ValidationResultItem, confidenceMap map[string]float64) map[string]*FieldStatus {
	statuses := make(map[string]*FieldStatus)

	for _, r := range results {
		fs, ok := statuses[r.FieldPath]
		if !ok {
			fs = &FieldStatus{Status: domain.FieldStatusValid, Messages: []string{}}
			statuses[r.FieldPath] = fs
		}
		if r.Passed {
			continue
		}
		if r.Severity == domain.ValidationSeverityError {
			fs.Status = domain.FieldStatusInvalid
		} else if fs.Status != domain.FieldStatusInvalid {
			fs.Status = domain.FieldStatusUnsure
		}
		fs.Messages = append(fs.Messages, r.Message)
	}

	// Low confidence downgrades an otherwise valid field.
	for fieldPath, confidence := range confidenceMap {
		fs, exists := statuses[fieldPath]
		if !exists {
			fs = &FieldStatus{Status: domain.FieldStatusValid, Messages: []string{}}
			statuses[fieldPath] = fs
		}
		if confidence <= UnsureConfidence && fs.Status == domain.FieldStatusValid {
			fs.Status = domain.FieldStatusUnsure
		}
	}

	return statuses
}
