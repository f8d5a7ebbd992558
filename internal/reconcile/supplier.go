package reconcile

import (
	"strings"

	"facturas/internal/domain"
)

// SupplierStatus tells how the candidate supplier was resolved.
type SupplierStatus string

const (
	SupplierMatched  SupplierStatus = "matched"
	SupplierNotFound SupplierStatus = "not_found"
	SupplierAbsent   SupplierStatus = "absent"
)

// SupplierResolution is the outcome of matching a candidate supplier against
// the directory. A not_found resolution carries a create suggestion.
type SupplierResolution struct {
	Status        SupplierStatus `json:"status"`
	SupplierID    *int64         `json:"supplierId,omitempty"`
	SupplierName  string         `json:"supplierName,omitempty"`
	SuggestedName string         `json:"suggestedName,omitempty"`
	SuggestedCUIT string         `json:"suggestedCuit,omitempty"`
}

// MatchSupplier returns the first supplier, in the given order, whose name
// contains the candidate name or is contained by it, ignoring case.
func MatchSupplier(name string, suppliers []domain.Supplier) (*domain.Supplier, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for i := range suppliers {
		known := strings.ToLower(strings.TrimSpace(suppliers[i].Name))
		if known == "" {
			continue
		}
		if strings.Contains(known, needle) || strings.Contains(needle, known) {
			return &suppliers[i], true
		}
	}
	return nil, false
}

func resolveSupplier(hint *SupplierHint, suppliers []domain.Supplier) SupplierResolution {
	if hint == nil || strings.TrimSpace(hint.Name) == "" {
		return SupplierResolution{Status: SupplierAbsent}
	}
	if s, ok := MatchSupplier(hint.Name, suppliers); ok {
		id := s.ID
		return SupplierResolution{Status: SupplierMatched, SupplierID: &id, SupplierName: s.Name}
	}
	return SupplierResolution{
		Status:        SupplierNotFound,
		SuggestedName: strings.TrimSpace(hint.Name),
		SuggestedCUIT: strings.TrimSpace(hint.CUIT),
	}
}
