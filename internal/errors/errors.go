// Package errors defines common error types and utilities used throughout the application
package errors

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Sync errors
	ErrSyncFailed    = errors.New("sync operation failed")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Checkpoint errors
	ErrCheckpointEmpty = errors.New("template sync file is empty")

	// Pull request errors
	ErrPRNotFound = errors.New("pull request not found")

	// Git errors
	ErrGitCommand = errors.New("git command failed")

	// Test errors (only used in tests)
	ErrTest = errors.New("test error")
)

// Error templates for static error definitions (satisfies err113 linter)
var (
	errInvalidFieldTemplate     = errors.New("invalid field")
	errCommandFailedTemplate    = errors.New("command failed")
	errValidationFailedTemplate = errors.New("validation failed")
	errPathTraversalTemplate    = errors.New("path traversal detected")
	errEmptyFieldTemplate       = errors.New("field cannot be empty")
	errRequiredFieldTemplate    = errors.New("field is required")
	errInvalidFormatTemplate    = errors.New("invalid format")
)

// WrapWithContext wraps an error with operation context using consistent formatting.
// This replaces manual fmt.Errorf("failed to %s: %w", operation, err) patterns.
func WrapWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// InvalidFieldError creates a standardized invalid field error.
func InvalidFieldError(field, value string) error {
	return fmt.Errorf("%w: %s: %s", errInvalidFieldTemplate, field, value)
}

// CommandFailedError creates a standardized command failure error.
// This standardizes command execution error reporting across git and gh.
func CommandFailedError(cmd string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: '%s': %w", errCommandFailedTemplate, cmd, err)
}

// ValidationError creates a standardized validation error.
func ValidationError(item, reason string) error {
	return fmt.Errorf("%w for %s: %s", errValidationFailedTemplate, item, reason)
}

// PathTraversalError creates a specific error for path traversal attempts.
func PathTraversalError(path string) error {
	return fmt.Errorf("%w: invalid path '%s'", errPathTraversalTemplate, path)
}

// EmptyFieldError creates a standardized empty field validation error.
func EmptyFieldError(field string) error {
	return fmt.Errorf("%w: %s", errEmptyFieldTemplate, field)
}

// RequiredFieldError creates a standardized required field error.
func RequiredFieldError(field string) error {
	return fmt.Errorf("%w: %s", errRequiredFieldTemplate, field)
}

// FormatError creates a standardized format validation error.
func FormatError(field, value, expectedFormat string) error {
	return fmt.Errorf("%w: %s '%s': expected %s", errInvalidFormatTemplate, field, value, expectedFormat)
}

// SyncStepError records the orchestrator state a run failed in.
type SyncStepError struct {
	Step string
	Err  error
}

func (e *SyncStepError) Error() string {
	return "failed to " + e.Step + ": " + e.Err.Error()
}

func (e *SyncStepError) Unwrap() error {
	return e.Err
}

// StepError tags an orchestrator failure with the step that produced it.
// The message reads "failed to <step>: <cause>" and errors.Is still reaches the cause.
func StepError(step string, err error) error {
	if err == nil {
		return nil
	}
	return &SyncStepError{Step: step, Err: err}
}

// IsStepError reports whether err was produced by StepError.
func IsStepError(err error) bool {
	var stepErr *SyncStepError
	return errors.As(err, &stepErr)
}

// FailedStep returns the step recorded by StepError, if any.
func FailedStep(err error) (string, bool) {
	var stepErr *SyncStepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}
	return "", false
}
