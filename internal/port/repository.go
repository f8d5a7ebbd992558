package port

import (
	"context"

	"github.com/google/uuid"

	"facturas/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SupplierRepository defines the contract for the supplier directory.
// ListAll returns suppliers ordered by name, the order extraction matching uses.
type SupplierRepository interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id int64) (*domain.Supplier, error)
	ListAll(ctx context.Context) ([]domain.Supplier, error)
	Search(ctx context.Context, query string) ([]domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	ListAll(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64, paymentDate string) error
	MarkPrepared(ctx context.Context, id int64) error
}
