package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facturas/internal/domain"
	"facturas/internal/export"
	"facturas/internal/invoice"
	"facturas/internal/port"
	"facturas/internal/validator"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// InvoiceListInput selects one page of invoices. Page is 1-based.
type InvoiceListInput struct {
	Filter domain.InvoiceFilter
	Page   int
	Limit  int
}

// InvoicePage is one page of a listing plus the paging metadata.
type InvoicePage struct {
	Invoices []domain.Invoice
	Total    int
	Page     int
	PerPage  int
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	List(ctx context.Context, input InvoiceListInput) (*InvoicePage, error)
	Get(ctx context.Context, id int64) (*domain.Invoice, error)
	Create(ctx context.Context, userID uuid.UUID, p invoice.Patch) (*domain.Invoice, error)
	Update(ctx context.Context, id int64, p invoice.Patch) (*domain.Invoice, error)
	Delete(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64, paymentDate string) (*domain.Invoice, error)
	MarkPrepared(ctx context.Context, id int64) (*domain.Invoice, error)
	Export(ctx context.Context, filter domain.InvoiceFilter, format export.Format, w io.Writer) error
}

type invoiceService struct {
	invoices  port.InvoiceRepository
	suppliers port.SupplierRepository
	engine    *validator.Engine
	log       zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	invoices port.InvoiceRepository,
	suppliers port.SupplierRepository,
	engine *validator.Engine,
	log zerolog.Logger,
) InvoiceService {
	return &invoiceService{
		invoices:  invoices,
		suppliers: suppliers,
		engine:    engine,
		log:       log,
	}
}

func (s *invoiceService) List(ctx context.Context, input InvoiceListInput) (*InvoicePage, error) {
	page, limit := normalizePaging(input.Page, input.Limit)
	invoices, total, err := s.invoices.List(ctx, input.Filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &InvoicePage{Invoices: invoices, Total: total, Page: page, PerPage: limit}, nil
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// Create builds a fresh draft from the base fields of p, so the derived
// amounts are always the calculator's, then validates and persists it.
func (s *invoiceService) Create(ctx context.Context, userID uuid.UUID, p invoice.Patch) (*domain.Invoice, error) {
	d := invoice.NewDraft(time.Now())
	d.Apply(InputPatch(p))
	if !p.Date.Set {
		d.Date = ""
	}

	inv, err := s.prepare(ctx, d)
	if err != nil {
		return nil, err
	}
	inv.CreatedBy = userID

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	s.log.Info().Int64("invoice_id", inv.ID).Str("total", inv.TotalAmount.StringFixed(2)).Msg("invoice created")
	return s.invoices.GetByID(ctx, inv.ID)
}

func (s *invoiceService) Update(ctx context.Context, id int64, p invoice.Patch) (*domain.Invoice, error) {
	existing, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := invoice.DraftFromInvoice(existing)
	d.Apply(InputPatch(p))

	inv, err := s.prepare(ctx, d)
	if err != nil {
		return nil, err
	}
	inv.ID = existing.ID
	inv.CreatedBy = existing.CreatedBy
	inv.ImageKey = existing.ImageKey
	if inv.Status == domain.InvoiceStatusPaid {
		inv.PaymentDate = existing.PaymentDate
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *invoiceService) Delete(ctx context.Context, id int64) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("invoice_id", id).Msg("invoice deleted")
	return nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id int64, paymentDate string) (*domain.Invoice, error) {
	if _, err := time.Parse(invoice.DateLayout, paymentDate); err != nil {
		return nil, fmt.Errorf("%q: %w", paymentDate, domain.ErrInvalidPaymentDate)
	}
	if err := s.invoices.MarkPaid(ctx, id, paymentDate); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *invoiceService) MarkPrepared(ctx context.Context, id int64) (*domain.Invoice, error) {
	if err := s.invoices.MarkPrepared(ctx, id); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *invoiceService) Export(ctx context.Context, filter domain.InvoiceFilter, format export.Format, w io.Writer) error {
	invoices, err := s.invoices.ListAll(ctx, filter)
	if err != nil {
		return err
	}
	s.log.Info().Str("format", string(format)).Int("rows", len(invoices)).Msg("exporting invoices")
	return export.Write(w, format, invoices)
}

// prepare validates d and converts it to a rounded invoice. The supplier
// must exist.
func (s *invoiceService) prepare(ctx context.Context, d *invoice.Draft) (*domain.Invoice, error) {
	if err := s.engine.Check(ctx, d); err != nil {
		return nil, err
	}
	if _, err := s.suppliers.GetByID(ctx, *d.SupplierID); err != nil {
		return nil, err
	}
	return d.ToInvoice(), nil
}

// InputPatch keeps only the fields a user may set directly. Derived amounts
// always come from the calculator.
func InputPatch(p invoice.Patch) invoice.Patch {
	return invoice.Patch{
		Date:       p.Date,
		Type:       p.Type,
		Amount:     p.Amount,
		Amount105:  p.Amount105,
		HasIIBB:    p.HasIIBB,
		Status:     p.Status,
		SupplierID: p.SupplierID,
	}
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
