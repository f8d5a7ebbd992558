package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"facturas/internal/draft"
	"facturas/internal/port"
	"facturas/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Start(ctx context.Context, ownerID, draftID uuid.UUID, image service.ImageUploadInput, settings *port.OCRSettings) (*draft.Attempt, error) {
	args := m.Called(ctx, ownerID, draftID, image, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.Attempt), args.Error(1)
}

func (m *MockExtractionService) Attempt(ctx context.Context, ownerID, draftID, attemptID uuid.UUID) (*service.AttemptView, error) {
	args := m.Called(ctx, ownerID, draftID, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttemptView), args.Error(1)
}

func (m *MockExtractionService) Run(ctx context.Context, job service.ExtractionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockExtractionService) Abandon(ctx context.Context, job service.ExtractionJob) {
	m.Called(ctx, job)
}

func (m *MockExtractionService) ProcessImage(ctx context.Context, image service.ImageUploadInput, settings *port.OCRSettings) (*service.ProcessedImage, error) {
	args := m.Called(ctx, image, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessedImage), args.Error(1)
}
