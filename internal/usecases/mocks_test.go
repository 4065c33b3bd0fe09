package usecases_test

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mock NameResolver
type MockNameResolver struct {
	mock.Mock
}

func (m *MockNameResolver) ResolveName(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// Mock UsernameResolver
type MockUsernameResolver struct {
	mock.Mock
}

func (m *MockUsernameResolver) ResolveUsername(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}
