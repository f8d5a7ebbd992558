package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, the way the invoice screens send them.
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents an authenticated operator of the invoice book.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Supplier is an entry in the supplier directory.
type Supplier struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CUIT        *string   `db:"cuit" json:"cuit,omitempty"`
	CBU         *string   `db:"cbu" json:"cbu,omitempty"`
	PaymentTerm *int      `db:"payment_term" json:"paymentTerm,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice is a persisted invoice. Amounts are stored rounded to cents.
type Invoice struct {
	ID           int64           `db:"id" json:"id"`
	Date         string          `db:"date" json:"date"`
	Type         InvoiceType     `db:"type" json:"type"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Amount105    decimal.Decimal `db:"amount_105" json:"amount_105"`
	VATAmount21  decimal.Decimal `db:"vat_amount_21" json:"vat_amount_21"`
	VATAmount105 decimal.Decimal `db:"vat_amount_105" json:"vat_amount_105"`
	TotalNeto    decimal.Decimal `db:"total_neto" json:"total_neto"`
	HasIIBB      bool            `db:"has_ii_bb" json:"has_ii_bb"`
	IIBBAmount   decimal.Decimal `db:"ii_bb_amount" json:"ii_bb_amount"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status       InvoiceStatus   `db:"status" json:"status"`
	PaymentDate  *string         `db:"payment_date" json:"paymentDate,omitempty"`
	SupplierID   int64           `db:"supplier_id" json:"supplierId"`
	SupplierName string          `db:"supplier_name" json:"supplierName,omitempty"`
	ImageKey     *string         `db:"image_key" json:"imageKey,omitempty"`
	CreatedBy    uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// InvoiceSort names the columns invoices can be ordered by.
type InvoiceSort string

const (
	SortByDate         InvoiceSort = "date"
	SortBySupplier     InvoiceSort = "supplier"
	SortBySupplierName InvoiceSort = "supplier.name"
)

// InvoiceFilter narrows an invoice listing. Zero values mean "no filter".
type InvoiceFilter struct {
	Statuses   []InvoiceStatus
	Type       InvoiceType
	FromDate   string
	ToDate     string
	SupplierID *int64
	SortBy     InvoiceSort
	Descending bool
}

// Notice is a user-facing notification produced by a workflow step.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}
