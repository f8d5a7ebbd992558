package domain

// InvoiceType is the fiscal class of an invoice.
type InvoiceType string

const (
	// InvoiceTypeA is VAT liable with the 21% and 10.5% tiers.
	InvoiceTypeA InvoiceType = "A"
	// InvoiceTypeX is exempt or simplified: no VAT, no II.BB.
	InvoiceTypeX InvoiceType = "X"
)

// Valid reports whether t is a known invoice type.
func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeA || t == InvoiceTypeX
}

// InvoiceStatus tracks where an invoice is in the payment workflow.
type InvoiceStatus string

const (
	InvoiceStatusToPay    InvoiceStatus = "to_pay"
	InvoiceStatusPrepared InvoiceStatus = "prepared"
	InvoiceStatusPaid     InvoiceStatus = "paid"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusToPay, InvoiceStatusPrepared, InvoiceStatusPaid:
		return true
	}
	return false
}

// Label returns the Spanish label shown to users.
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusToPay:
		return "A pagar"
	case InvoiceStatusPrepared:
		return "Preparada"
	case InvoiceStatusPaid:
		return "Pagada"
	default:
		return string(s)
	}
}

// AllowedImageTypes maps image MIME types accepted for OCR to a file extension.
var AllowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UserRole defines what a user may do.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ExtractionStatus is the lifecycle of one OCR attempt against a draft.
type ExtractionStatus string

const (
	ExtractionPending    ExtractionStatus = "pending"
	ExtractionApplied    ExtractionStatus = "applied"
	ExtractionSuperseded ExtractionStatus = "superseded"
	ExtractionFailed     ExtractionStatus = "failed"
)

// NoticeKind classifies a user-facing notification.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// ValidationSeverity determines whether a failing rule blocks submission.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)

// ValidationRuleType categorizes draft validation rules.
type ValidationRuleType string

const (
	ValidationRuleRequired ValidationRuleType = "required_field"
	ValidationRuleRange    ValidationRuleType = "range"
	ValidationRuleEnum     ValidationRuleType = "enum"
	ValidationRuleFormat   ValidationRuleType = "format"
	ValidationRuleSumCheck ValidationRuleType = "sum_check"
	ValidationRuleLogical  ValidationRuleType = "logical"
)

// FieldValidationStatus represents the computed validation state for a single field.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusInvalid FieldValidationStatus = "invalid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
)
