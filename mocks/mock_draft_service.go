package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"facturas/internal/domain"
	"facturas/internal/draft"
	"facturas/internal/invoice"
	"facturas/internal/validator"
)

// MockDraftService is a mock implementation of service.DraftService.
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) Create(ctx context.Context, ownerID uuid.UUID, fromInvoiceID *int64) (*draft.Session, error) {
	args := m.Called(ctx, ownerID, fromInvoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.Session), args.Error(1)
}

func (m *MockDraftService) Get(ctx context.Context, ownerID, id uuid.UUID) (*draft.Session, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.Session), args.Error(1)
}

func (m *MockDraftService) Edit(ctx context.Context, ownerID, id uuid.UUID, p invoice.Patch) (*draft.Session, error) {
	args := m.Called(ctx, ownerID, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.Session), args.Error(1)
}

func (m *MockDraftService) Validate(ctx context.Context, ownerID, id uuid.UUID) (*validator.Report, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.Report), args.Error(1)
}

func (m *MockDraftService) Submit(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockDraftService) Discard(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
