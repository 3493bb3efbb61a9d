// Package validation provides shared validation utilities used by the
// configuration layer and the command line.
package validation

import (
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mrz1836/go-template-sync/internal/errors"
)

// Validation patterns compiled once for efficiency
var (
	// repoNamePattern validates repository names in owner/repo format
	repoNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][\w.-]*/[a-zA-Z0-9][\w.-]*$`)

	// branchNamePattern validates branch names with allowed characters
	branchNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][\w./\-]*$`)

	// projectNamePattern validates the names fed to the case converters
	projectNamePattern = regexp.MustCompile(`^[\w.-]+$`)
)

// ValidateRepoName validates repository name format.
// Expects owner/repo format and ensures no path traversal attempts.
func ValidateRepoName(name string) error {
	if name == "" {
		return errors.EmptyFieldError("repository name")
	}

	if strings.Contains(name, "..") {
		return errors.PathTraversalError(name)
	}

	if !repoNamePattern.MatchString(name) {
		return errors.FormatError("repository name", name, "owner/repo")
	}

	return nil
}

// ValidateBranchName validates branch name format.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.EmptyFieldError("branch name")
	}

	if !branchNamePattern.MatchString(name) || strings.Contains(name, "..") || strings.HasSuffix(name, "/") {
		return errors.InvalidFieldError("branch name", name)
	}

	return nil
}

// ValidateProjectName validates a from/to name used for identifier conversion
func ValidateProjectName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.EmptyFieldError(field)
	}

	if !projectNamePattern.MatchString(name) {
		return errors.InvalidFieldError(field, name)
	}

	return nil
}

// ValidateFilePath validates a repository-relative file path.
// Paths must be relative and must not escape the repository.
func ValidateFilePath(p, fieldName string) error {
	if p == "" {
		return errors.RequiredFieldError(fieldName + " path")
	}

	if path.IsAbs(p) || strings.HasPrefix(p, `\`) {
		return errors.ValidationError(fieldName+" path", "must be relative, not absolute")
	}

	cleanPath := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return errors.PathTraversalError(p)
	}

	if cleanPath == "." {
		return errors.ValidationError(fieldName+" path", "must name a file")
	}

	return nil
}

// ValidateGlob validates an ignore pattern
func ValidateGlob(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return errors.EmptyFieldError("ignore pattern")
	}

	if !doublestar.ValidatePattern(pattern) {
		return errors.ValidationError("ignore pattern", "malformed glob '"+pattern+"'")
	}

	return nil
}

// ValidateNonEmpty validates that a string field is not empty or whitespace-only.
func ValidateNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.EmptyFieldError(field)
	}
	return nil
}

// Result collects validation errors.
type Result struct {
	Valid  bool
	Errors []error
}

// AddError adds an error to the validation result.
func (vr *Result) AddError(err error) {
	if err != nil {
		vr.Valid = false
		vr.Errors = append(vr.Errors, err)
	}
}

// AddWrapped adds err prefixed with the field it belongs to.
func (vr *Result) AddWrapped(field string, err error) {
	if err != nil {
		vr.AddError(errors.WrapWithContext(err, "validate "+field))
	}
}

// FirstError returns the first validation error or nil if valid.
func (vr *Result) FirstError() error {
	if len(vr.Errors) > 0 {
		return vr.Errors[0]
	}
	return nil
}

// AllErrors returns all validation errors as a single combined error.
func (vr *Result) AllErrors() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	if len(vr.Errors) == 1 {
		return vr.Errors[0]
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		messages = append(messages, err.Error())
	}

	return errors.ValidationError("multiple fields", strings.Join(messages, "; "))
}

// NewValidationResult creates a new validation result initialized as valid.
func NewValidationResult() *Result {
	return &Result{
		Valid:  true,
		Errors: make([]error, 0),
	}
}
