package gh

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-template-sync/internal/testutil"
)

// MockCommandRunner is a mock implementation of CommandRunner
type MockCommandRunner struct {
	mock.Mock
}

// Run mock implementation
func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return testutil.HandleTwoValueReturn[[]byte](m.Called(ctx, name, args))
}

// RunWithInput mock implementation
func (m *MockCommandRunner) RunWithInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error) {
	return testutil.HandleTwoValueReturn[[]byte](m.Called(ctx, input, name, args))
}
