package transform

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mrz1836/go-template-sync/internal/testutil"
)

// MockTransformer is a mock implementation of the Transformer interface
type MockTransformer struct {
	mock.Mock
}

// Name mock implementation
func (m *MockTransformer) Name() string {
	args := m.Called()
	return args.String(0)
}

// Transform mock implementation
func (m *MockTransformer) Transform(content []byte, ctx Context) ([]byte, error) {
	return testutil.HandleTwoValueReturn[[]byte](m.Called(content, ctx))
}

// MockChain is a mock implementation of the Chain interface
type MockChain struct {
	mock.Mock
}

// Add mock implementation
func (m *MockChain) Add(transformer Transformer) Chain {
	m.Called(transformer)
	return m
}

// Transform mock implementation
func (m *MockChain) Transform(ctx context.Context, content []byte, transformCtx Context) ([]byte, error) {
	return testutil.HandleTwoValueReturn[[]byte](m.Called(ctx, content, transformCtx))
}

// Transformers mock implementation
func (m *MockChain) Transformers() []Transformer {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]Transformer)
}
