// Package transform provides identifier conversion and file content
// transformation for template synchronization.
package transform

import (
	"context"
	"errors"

	"github.com/mrz1836/go-template-sync/internal/logging"
)

// ErrSkipContent is returned by a Transformer to stop the chain and leave the
// content untouched. The chain itself does not report it as a failure.
var ErrSkipContent = errors.New("content skipped")

// Transformer defines the interface for content transformations
type Transformer interface {
	// Name returns the name of this transformer
	Name() string

	// Transform applies the transformation to the content
	Transform(content []byte, ctx Context) ([]byte, error)
}

// Context provides context for transformations
type Context struct {
	// TemplateRepo is the upstream template repository (e.g., "org/go-template")
	TemplateRepo string

	// Repository is the downstream repository being synchronized
	Repository string

	// FilePath is the repository-relative path of the file being transformed
	FilePath string

	// LogConfig provides configuration for debug logging and verbose settings
	LogConfig *logging.LogConfig
}

// Chain defines the interface for composing multiple transformers
type Chain interface {
	// Add appends a transformer to the chain
	Add(transformer Transformer) Chain

	// Transform applies all transformers in sequence
	Transform(ctx context.Context, content []byte, transformCtx Context) ([]byte, error)

	// Transformers returns the list of transformers in the chain
	Transformers() []Transformer
}
