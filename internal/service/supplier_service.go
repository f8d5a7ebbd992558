package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"facturas/internal/domain"
	"facturas/internal/port"
)

// SupplierInput is the DTO for creating or replacing a supplier.
type SupplierInput struct {
	Name        string  `json:"name"`
	CUIT        *string `json:"cuit"`
	CBU         *string `json:"cbu"`
	PaymentTerm *int    `json:"paymentTerm"`
}

// SupplierService defines the supplier directory contract.
type SupplierService interface {
	List(ctx context.Context, query string) ([]domain.Supplier, error)
	Get(ctx context.Context, id int64) (*domain.Supplier, error)
	Create(ctx context.Context, input SupplierInput) (*domain.Supplier, error)
	Update(ctx context.Context, id int64, input SupplierInput) (*domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type supplierService struct {
	repo port.SupplierRepository
	log  zerolog.Logger
}

// NewSupplierService creates a new SupplierService implementation.
func NewSupplierService(repo port.SupplierRepository, log zerolog.Logger) SupplierService {
	return &supplierService{repo: repo, log: log}
}

func (s *supplierService) List(ctx context.Context, query string) ([]domain.Supplier, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.ListAll(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *supplierService) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *supplierService) Create(ctx context.Context, input SupplierInput) (*domain.Supplier, error) {
	sup, err := supplierFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	s.log.Info().Int64("supplier_id", sup.ID).Str("name", sup.Name).Msg("supplier created")
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, id int64, input SupplierInput) (*domain.Supplier, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sup, err := supplierFromInput(input)
	if err != nil {
		return nil, err
	}
	sup.ID = existing.ID
	sup.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *supplierService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func supplierFromInput(input SupplierInput) (*domain.Supplier, error) {
	fields := domain.FieldErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fields["name"] = "El nombre es requerido"
	}
	if input.PaymentTerm != nil && *input.PaymentTerm < 0 {
		fields["paymentTerm"] = "El plazo de pago no puede ser negativo"
	}
	if len(fields) > 0 {
		return nil, fields
	}
	return &domain.Supplier{
		Name:        name,
		CUIT:        trimmedOrNil(input.CUIT),
		CBU:         trimmedOrNil(input.CBU),
		PaymentTerm: input.PaymentTerm,
	}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
