// Package testutil provides shared testing helpers for testify mocks and
// throwaway git repositories.
package testutil

import (
	"errors"
	"fmt"

	"github.com/stretchr/testify/mock"
)

// ErrMockMisconfigured is returned when a mock expectation does not provide
// the return values its method needs.
var ErrMockMisconfigured = errors.New("mock not properly configured")

// ValidateArgs validates mock arguments count against expected count
func ValidateArgs(args mock.Arguments, expectedCount int) error {
	if len(args) != expectedCount {
		return fmt.Errorf("%w: expected %d return values, got %d", ErrMockMisconfigured, expectedCount, len(args))
	}
	return nil
}

// ExtractError extracts the error from mock arguments for methods that
// return only an error.
func ExtractError(args mock.Arguments) error {
	if err := ValidateArgs(args, 1); err != nil {
		return err
	}

	if args.Get(0) == nil {
		return nil
	}

	if err, ok := args.Get(0).(error); ok {
		return err
	}

	return fmt.Errorf("%w: returned non-error type %T", ErrMockMisconfigured, args.Get(0))
}

// HandleTwoValueReturn handles methods returning (result, error).
//
// A single error return is accepted as a shorthand for (zero, err).
func HandleTwoValueReturn[T any](args mock.Arguments) (T, error) {
	var zero T

	if len(args) < 2 {
		if len(args) == 1 {
			if err, ok := args.Get(0).(error); ok {
				return zero, err
			}
		}
		return zero, fmt.Errorf("%w: expected 2 return values, got %d", ErrMockMisconfigured, len(args))
	}

	if args.Get(0) == nil {
		return zero, args.Error(1)
	}

	result, ok := args.Get(0).(T)
	if !ok {
		return zero, fmt.Errorf("%w: result is %T, not %T", ErrMockMisconfigured, args.Get(0), zero)
	}

	return result, args.Error(1)
}
