package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
)

// MockCompletionDispatcher is a mock implementation of port.CompletionDispatcher.
type MockCompletionDispatcher struct {
	mock.Mock
}

func (m *MockCompletionDispatcher) Dispatch(ctx context.Context, prompt domain.PromptPair) []domain.ProviderResponse {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ProviderResponse)
}

func (m *MockCompletionDispatcher) ProviderIDs() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
