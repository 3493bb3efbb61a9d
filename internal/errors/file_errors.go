// Package errors - file operation error utilities
package errors

import (
	"errors"
	"fmt"
)

// Error templates for file operations
var (
	errFileOperationTemplate = errors.New("file operation failed")
)

// FileOperationError creates a standardized file operation error.
//
// Example usage:
//
//	return FileOperationError("read", "pkg/foo.go", err)
//	// Returns: "file operation failed: read 'pkg/foo.go': <original error>"
func FileOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", errFileOperationTemplate, operation, path, err)
}

// FileReadError is a convenience function for file read operations.
func FileReadError(path string, err error) error {
	return FileOperationError("read", path, err)
}

// FileWriteError is a convenience function for file write operations.
func FileWriteError(path string, err error) error {
	return FileOperationError("write", path, err)
}

// FileRenameError is a convenience function for rename operations.
func FileRenameError(from, to string, err error) error {
	return FileOperationError("rename", from+" -> "+to, err)
}

// FileRemoveError is a convenience function for delete operations.
func FileRemoveError(path string, err error) error {
	return FileOperationError("remove", path, err)
}
