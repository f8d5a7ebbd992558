package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrDuplicateEmail      = errors.New("email already exists")

	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrSupplierInUse      = errors.New("supplier has invoices")
	ErrDuplicateCUIT      = errors.New("supplier cuit already exists")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrDraftBusy          = errors.New("draft is being modified")
	ErrAttemptNotFound    = errors.New("extraction attempt not found")
	ErrAttemptSuperseded  = errors.New("extraction attempt was superseded")
	ErrInvalidFilter      = errors.New("invalid invoice filter")
	ErrExtractionFailed   = errors.New("invoice extraction failed")
	ErrUnknownOCREngine   = errors.New("unknown ocr engine")
	ErrInvalidPaymentDate = errors.New("invalid payment date")
	ErrValidation         = errors.New("validation failed")
	ErrQueueFull          = errors.New("extraction queue is full")
)

// FieldErrors maps a field name to the reason it was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true for FieldErrors.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
