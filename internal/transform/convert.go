package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConversionOverlap reports a rule whose replacement contains a rule's pattern.
var ErrConversionOverlap = errors.New("conversion output contains a conversion pattern")

// Convert applies every rule to text in order, replacing all occurrences of
// From with To. Rules with an empty From are skipped.
func Convert(conversions Conversions, text string) string {
	for _, c := range conversions {
		if c.From == "" || c.From == c.To {
			continue
		}
		text = strings.ReplaceAll(text, c.From, c.To)
	}
	return text
}

// Validate reports every rule whose To contains the From of any rule in the
// set. Such a set is not idempotent: converting converted text changes it
// again. A nil return means the set is safe to re-apply.
func (c Conversions) Validate() error {
	var errs []error
	for _, outer := range c {
		if outer.From == outer.To {
			continue
		}
		for _, inner := range c {
			if inner.From == "" || inner.From == inner.To {
				continue
			}
			if strings.Contains(outer.To, inner.From) {
				errs = append(errs, fmt.Errorf("%w: %q -> %q reintroduces %q",
					ErrConversionOverlap, outer.From, outer.To, inner.From))
			}
		}
	}
	return errors.Join(errs...)
}

// conversionTransformer runs a conversion set as part of a Chain.
type conversionTransformer struct {
	conversions Conversions
}

// NewConversionTransformer creates a transformer that applies conversions to content.
func NewConversionTransformer(conversions Conversions) Transformer {
	return &conversionTransformer{conversions: conversions}
}

// Name returns the name of this transformer
func (t *conversionTransformer) Name() string {
	return "name-conversion"
}

// Transform applies the conversion set to the whole content.
func (t *conversionTransformer) Transform(content []byte, _ Context) ([]byte, error) {
	if len(content) == 0 {
		return content, nil
	}
	converted := Convert(t.conversions, string(content))
	if converted == string(content) {
		return content, nil
	}
	return []byte(converted), nil
}
