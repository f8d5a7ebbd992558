package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"facturas/internal/domain"
	"facturas/internal/port"
)

const invoiceSelect = `SELECT i.id, to_char(i.date, 'YYYY-MM-DD') AS date, i.type,
	i.amount, i.amount_105, i.vat_amount_21, i.vat_amount_105, i.total_neto,
	i.has_ii_bb, i.ii_bb_amount, i.total_amount, i.status,
	to_char(i.payment_date, 'YYYY-MM-DD') AS payment_date,
	i.supplier_id, s.name AS supplier_name, i.image_key,
	i.created_by, i.created_at, i.updated_at
	FROM invoices i JOIN suppliers s ON s.id = i.supplier_id`

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (
		date, type, amount, amount_105, vat_amount_21, vat_amount_105,
		total_neto, has_ii_bb, ii_bb_amount, total_amount, status, payment_date,
		supplier_id, image_key, created_by, created_at, updated_at
	) VALUES (
		$1::date, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12::date,
		$13, $14, $15, $16, $17
	) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		inv.Date, inv.Type, inv.Amount, inv.Amount105, inv.VATAmount21, inv.VATAmount105,
		inv.TotalNeto, inv.HasIIBB, inv.IIBBAmount, inv.TotalAmount, inv.Status, inv.PaymentDate,
		inv.SupplierID, inv.ImageKey, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt).Scan(&inv.ID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrSupplierNotFound
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, invoiceSelect+" WHERE i.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	where, args, err := buildInvoiceWhere(filter)
	if err != nil {
		return nil, 0, err
	}
	order, err := invoiceOrder(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM invoices i JOIN suppliers s ON s.id = i.supplier_id " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("%s %s %s LIMIT $%d OFFSET $%d", invoiceSelect, where, order, n+1, n+2)
	args = append(args, limit, offset)

	invoices := []domain.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListAll(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	where, args, err := buildInvoiceWhere(filter)
	if err != nil {
		return nil, err
	}
	order, err := invoiceOrder(filter)
	if err != nil {
		return nil, err
	}

	invoices := []domain.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, invoiceSelect+" "+where+" "+order, args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListAll: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE invoices SET
		date = $1::date, type = $2, amount = $3, amount_105 = $4,
		vat_amount_21 = $5, vat_amount_105 = $6, total_neto = $7,
		has_ii_bb = $8, ii_bb_amount = $9, total_amount = $10,
		status = $11, payment_date = $12::date, supplier_id = $13,
		image_key = $14, updated_at = $15
		WHERE id = $16`,
		inv.Date, inv.Type, inv.Amount, inv.Amount105,
		inv.VATAmount21, inv.VATAmount105, inv.TotalNeto,
		inv.HasIIBB, inv.IIBBAmount, inv.TotalAmount,
		inv.Status, inv.PaymentDate, inv.SupplierID,
		inv.ImageKey, inv.UpdatedAt, inv.ID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrSupplierNotFound
		}
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) MarkPaid(ctx context.Context, id int64, paymentDate string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, payment_date = $2::date, updated_at = NOW() WHERE id = $3`,
		domain.InvoiceStatusPaid, paymentDate, id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkPaid: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) MarkPrepared(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`,
		domain.InvoiceStatusPrepared, id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkPrepared: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// buildInvoiceWhere constructs the WHERE clause for an invoice listing.
// It returns an empty clause when the filter is empty.
func buildInvoiceWhere(filter domain.InvoiceFilter) (clause string, args []interface{}, err error) {
	var conds []string
	argN := 1

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			if !st.Valid() {
				return "", nil, fmt.Errorf("status %q: %w", st, domain.ErrInvalidFilter)
			}
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(st))
			argN++
		}
		conds = append(conds, "i.status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Type != "" {
		if !filter.Type.Valid() {
			return "", nil, fmt.Errorf("type %q: %w", filter.Type, domain.ErrInvalidFilter)
		}
		conds = append(conds, fmt.Sprintf("i.type = $%d", argN))
		args = append(args, string(filter.Type))
		argN++
	}
	if filter.FromDate != "" {
		conds = append(conds, fmt.Sprintf("i.date >= $%d::date", argN))
		args = append(args, filter.FromDate)
		argN++
	}
	if filter.ToDate != "" {
		conds = append(conds, fmt.Sprintf("i.date <= $%d::date", argN))
		args = append(args, filter.ToDate)
		argN++
	}
	if filter.SupplierID != nil {
		conds = append(conds, fmt.Sprintf("i.supplier_id = $%d", argN))
		args = append(args, *filter.SupplierID)
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

func invoiceOrder(filter domain.InvoiceFilter) (string, error) {
	var column string
	switch filter.SortBy {
	case "", domain.SortByDate:
		column = "i.date"
	case domain.SortBySupplier, domain.SortBySupplierName:
		column = "s.name"
	default:
		return "", fmt.Errorf("sort %q: %w", filter.SortBy, domain.ErrInvalidFilter)
	}
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, i.id %s", column, dir, dir), nil
}
