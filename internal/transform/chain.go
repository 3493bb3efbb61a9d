package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/logging"
)

// chain implements the Chain interface
type chain struct {
	transformers []Transformer
	logger       *logrus.Logger
}

// NewChain creates a new transformer chain
func NewChain(logger *logrus.Logger) Chain {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &chain{
		transformers: []Transformer{},
		logger:       logger,
	}
}

// NewConversionChain builds the standard chain used for file rewrites:
// the binary guard followed by the conversion set.
func NewConversionChain(logger *logrus.Logger, conversions Conversions) Chain {
	return NewChain(logger).
		Add(NewBinaryGuard()).
		Add(NewConversionTransformer(conversions))
}

// Add appends a transformer to the chain
func (c *chain) Add(transformer Transformer) Chain {
	c.transformers = append(c.transformers, transformer)
	c.logger.WithField("transformer", transformer.Name()).Trace("Added transformer to chain")
	return c
}

// Transform applies all transformers in sequence.
//
// A transformer returning ErrSkipContent ends the chain; the original
// content is returned without error.
func (c *chain) Transform(ctx context.Context, content []byte, transformCtx Context) ([]byte, error) {
	result := content

	log := c.logger.WithFields(logrus.Fields{
		logging.StandardFields.Component: logging.ComponentNames.Transform,
		logging.StandardFields.FilePath:  transformCtx.FilePath,
	})

	for _, transformer := range c.transformers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		transformed, err := transformer.Transform(result, transformCtx)
		if errors.Is(err, ErrSkipContent) {
			log.WithField("transformer", transformer.Name()).Debug("Transform chain skipped content")
			return content, nil
		}
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transformer.Name(), err)
		}

		if string(transformed) != string(result) {
			log.WithFields(logrus.Fields{
				"transformer": transformer.Name(),
				"size_before": len(result),
				"size_after":  len(transformed),
			}).Trace("Content transformed")
		}

		result = transformed
	}

	return result, nil
}

// Transformers returns a copy of the transformers in the chain
func (c *chain) Transformers() []Transformer {
	result := make([]Transformer, len(c.transformers))
	copy(result, c.transformers)
	return result
}
