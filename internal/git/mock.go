package git

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-template-sync/internal/testutil"
)

// MockClient is a mock implementation of the Client interface
type MockClient struct {
	mock.Mock
}

// RepoPath mock implementation
func (m *MockClient) RepoPath() string {
	return m.Called().String(0)
}

// FetchRemote mock implementation
func (m *MockClient) FetchRemote(ctx context.Context, ownerRepo, remote string) error {
	return testutil.ExtractError(m.Called(ctx, ownerRepo, remote))
}

// CreateBranch mock implementation
func (m *MockClient) CreateBranch(ctx context.Context, name, base string) error {
	return testutil.ExtractError(m.Called(ctx, name, base))
}

// Merge mock implementation
func (m *MockClient) Merge(ctx context.Context, branch string) (MergeResult, error) {
	return testutil.HandleTwoValueReturn[MergeResult](m.Called(ctx, branch))
}

// ListFiles mock implementation
func (m *MockClient) ListFiles(ctx context.Context) ([]string, error) {
	return testutil.HandleTwoValueReturn[[]string](m.Called(ctx))
}

// ListChangedFiles mock implementation
func (m *MockClient) ListChangedFiles(ctx context.Context, fromCommit string) ([]FileChange, error) {
	return testutil.HandleTwoValueReturn[[]FileChange](m.Called(ctx, fromCommit))
}

// GetLatestCommit mock implementation
func (m *MockClient) GetLatestCommit(ctx context.Context) (string, error) {
	return testutil.HandleTwoValueReturn[string](m.Called(ctx))
}

// GetCommitBefore mock implementation
func (m *MockClient) GetCommitBefore(ctx context.Context, t time.Time) (string, error) {
	return testutil.HandleTwoValueReturn[string](m.Called(ctx, t))
}

// Commit mock implementation
func (m *MockClient) Commit(ctx context.Context, files []string, message string) (CommitResult, error) {
	return testutil.HandleTwoValueReturn[CommitResult](m.Called(ctx, files, message))
}

// Push mock implementation
func (m *MockClient) Push(ctx context.Context, force bool) error {
	return testutil.ExtractError(m.Called(ctx, force))
}

// Reset mock implementation
func (m *MockClient) Reset(ctx context.Context) error {
	return testutil.ExtractError(m.Called(ctx))
}

// Unstage mock implementation
func (m *MockClient) Unstage(ctx context.Context) error {
	return testutil.ExtractError(m.Called(ctx))
}

// CountCommitsBetween mock implementation
func (m *MockClient) CountCommitsBetween(ctx context.Context, base, head string) (int, error) {
	return testutil.HandleTwoValueReturn[int](m.Called(ctx, base, head))
}

// GetConfig mock implementation
func (m *MockClient) GetConfig(ctx context.Context, key, valueRegex string) (string, error) {
	return testutil.HandleTwoValueReturn[string](m.Called(ctx, key, valueRegex))
}

// SetConfig mock implementation
func (m *MockClient) SetConfig(ctx context.Context, key, value string) error {
	return testutil.ExtractError(m.Called(ctx, key, value))
}

// UnsetConfig mock implementation
func (m *MockClient) UnsetConfig(ctx context.Context, key, valueRegex string) (bool, error) {
	return testutil.HandleTwoValueReturn[bool](m.Called(ctx, key, valueRegex))
}
