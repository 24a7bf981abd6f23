package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
	"docextract/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Process(ctx context.Context, input service.ExtractInput) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) ProcessObject(ctx context.Context, key, documentType string) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, key, documentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) DocumentTypes() []service.DocumentTypeInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.DocumentTypeInfo)
}

func (m *MockExtractionService) Schema(documentType string) (domain.DocumentType, map[string]any) {
	args := m.Called(documentType)
	s, _ := args.Get(1).(map[string]any)
	return args.Get(0).(domain.DocumentType), s
}
