package gh

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-template-sync/internal/testutil"
)

// MockClient is a mock implementation of the Client interface
type MockClient struct {
	mock.Mock
}

// GetRepository mock implementation
func (m *MockClient) GetRepository(ctx context.Context, repo string) (*Repository, error) {
	return testutil.HandleTwoValueReturn[*Repository](m.Called(ctx, repo))
}

// CreatePR mock implementation
func (m *MockClient) CreatePR(ctx context.Context, repo string, req PRRequest) (*PR, error) {
	return testutil.HandleTwoValueReturn[*PR](m.Called(ctx, repo, req))
}

// ListPRs mock implementation
func (m *MockClient) ListPRs(ctx context.Context, repo, head, base string) ([]PR, error) {
	return testutil.HandleTwoValueReturn[[]PR](m.Called(ctx, repo, head, base))
}

// UpdatePR mock implementation
func (m *MockClient) UpdatePR(ctx context.Context, repo string, number int, update PRUpdate) error {
	return testutil.ExtractError(m.Called(ctx, repo, number, update))
}

// AddLabels mock implementation
func (m *MockClient) AddLabels(ctx context.Context, repo string, number int, labels []string) error {
	return testutil.ExtractError(m.Called(ctx, repo, number, labels))
}
