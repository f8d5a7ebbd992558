package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"facturas/internal/domain"
	"facturas/internal/service"
	"facturas/mocks"
)

func strPtr(s string) *string { return &s }

func TestSupplierService_List(t *testing.T) {
	repo := new(mocks.MockSupplierRepo)
	svc := service.NewSupplierService(repo, zerolog.Nop())

	all := []domain.Supplier{{ID: 1, Name: "ACME S.A."}, {ID: 2, Name: "Norte"}}
	repo.On("ListAll", mock.Anything).Return(all, nil)
	repo.On("Search", mock.Anything, "acme").Return(all[:1], nil)

	got, err := svc.List(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSupplierService_Create(t *testing.T) {
	repo := new(mocks.MockSupplierRepo)
	svc := service.NewSupplierService(repo, zerolog.Nop())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Supplier) bool {
		return s.Name == "Globex Corp" && s.CUIT != nil && *s.CUIT == "30-12345678-9" && s.CBU == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Supplier).ID = 11
	}).Return(nil)

	sup, err := svc.Create(context.Background(), service.SupplierInput{
		Name: " Globex Corp ",
		CUIT: strPtr("30-12345678-9"),
		CBU:  strPtr("   "),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), sup.ID)
	repo.AssertExpectations(t)
}

func TestSupplierService_Create_Invalid(t *testing.T) {
	repo := new(mocks.MockSupplierRepo)
	svc := service.NewSupplierService(repo, zerolog.Nop())
	term := -5

	_, err := svc.Create(context.Background(), service.SupplierInput{Name: "", PaymentTerm: &term})

	var fields domain.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "paymentTerm")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupplierService_Create_DuplicateCUIT(t *testing.T) {
	repo := new(mocks.MockSupplierRepo)
	svc := service.NewSupplierService(repo, zerolog.Nop())
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateCUIT)

	_, err := svc.Create(context.Background(), service.SupplierInput{Name: "ACME", CUIT: strPtr("30-1")})

	assert.ErrorIs(t, err, domain.ErrDuplicateCUIT)
}

func TestSupplierService_Update(t *testing.T) {
	repo := new(mocks.MockSupplierRepo)
	svc := service.NewSupplierService(repo, zerolog.Nop())

	repo.On("GetByID", mock.Anything, int64(3)).Return(&domain.Supplier{ID: 3, Name: "Old"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Supplier) bool {
		return s.ID == 3 && s.Name == "New"
	})).Return(nil)

	sup, err := svc.Update(context.Background(), 3, service.SupplierInput{Name: "New"})

	require.NoError(t, err)
	assert.Equal(t, "New", sup.Name)
}

func TestSupplierService_Delete_InUse(t *testing.T) {
	repo := new(mocks.MockSupplierRepo)
	svc := service.NewSupplierService(repo, zerolog.Nop())
	repo.On("Delete", mock.Anything, int64(3)).Return(domain.ErrSupplierInUse)

	assert.ErrorIs(t, svc.Delete(context.Background(), 3), domain.ErrSupplierInUse)
}
