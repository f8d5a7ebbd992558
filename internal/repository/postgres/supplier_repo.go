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

type supplierRepo struct {
	db *sqlx.DB
}

// NewSupplierRepo creates a new PostgreSQL-backed SupplierRepository.
func NewSupplierRepo(db *sqlx.DB) port.SupplierRepository {
	return &supplierRepo{db: db}
}

func (r *supplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `INSERT INTO suppliers (name, cuit, cbu, payment_term, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		s.Name, s.CUIT, s.CBU, s.PaymentTerm, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrDuplicateCUIT
		}
		return fmt.Errorf("supplierRepo.Create: %w", err)
	}
	return nil
}

func (r *supplierRepo) GetByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.GetContext(ctx, &s, "SELECT * FROM suppliers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("supplierRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *supplierRepo) ListAll(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	err := r.db.SelectContext(ctx, &suppliers, "SELECT * FROM suppliers ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("supplierRepo.ListAll: %w", err)
	}
	return suppliers, nil
}

func (r *supplierRepo) Search(ctx context.Context, query string) ([]domain.Supplier, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	var suppliers []domain.Supplier
	err := r.db.SelectContext(ctx, &suppliers,
		`SELECT * FROM suppliers WHERE name ILIKE $1 ESCAPE '\' ORDER BY name, id`, pattern)
	if err != nil {
		return nil, fmt.Errorf("supplierRepo.Search: %w", err)
	}
	return suppliers, nil
}

func (r *supplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	s.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE suppliers SET name = $1, cuit = $2, cbu = $3, payment_term = $4, updated_at = $5
		 WHERE id = $6`,
		s.Name, s.CUIT, s.CBU, s.PaymentTerm, s.UpdatedAt, s.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrDuplicateCUIT
		}
		return fmt.Errorf("supplierRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func (r *supplierRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrSupplierInUse
		}
		return fmt.Errorf("supplierRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
