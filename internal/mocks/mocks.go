// Package mocks provides testify mocks for the session's collaborator
// ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mbertin/recipevault/internal/model"
)

// MockNotifier is a mock implementation of session.Notifier.
type MockNotifier struct {
	mock.Mock
}

// Success mocks the Success method.
func (m *MockNotifier) Success(ctx context.Context, message string) {
	m.Called(ctx, message)
}

// Error mocks the Error method.
func (m *MockNotifier) Error(ctx context.Context, message string) {
	m.Called(ctx, message)
}

// MockGenerator is a mock implementation of service.RecipeGenerator.
type MockGenerator struct {
	mock.Mock
}

// GenerateRecipe mocks the GenerateRecipe method.
func (m *MockGenerator) GenerateRecipe(ctx context.Context, description string) (*model.RecipeForm, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RecipeForm), args.Error(1)
}
