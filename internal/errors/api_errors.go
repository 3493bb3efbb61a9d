// Package errors - API operation error utilities
package errors

import (
	"errors"
	"fmt"
)

// Error templates for API operations
var (
	errGitHubAPITemplate      = errors.New("GitHub API operation failed")
	errAuthenticationTemplate = errors.New("authentication failed")
)

// GitHubAPIError creates a standardized GitHub API error.
//
// Example usage:
//
//	return GitHubAPIError("create pull request", "user/repo", err)
//	// Returns: "GitHub API operation failed: create pull request 'user/repo': <original error>"
func GitHubAPIError(operation, context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", errGitHubAPITemplate, operation, context, err)
}

// AuthenticationError creates a standardized authentication error.
func AuthenticationError(service, reason string) error {
	return fmt.Errorf("%w: %s: %s", errAuthenticationTemplate, service, reason)
}
