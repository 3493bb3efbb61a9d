// Package env loads environment variables from .env files before
// configuration is resolved.
package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Default locations, relative to the repository root.
const (
	BaseFile   = ".github/.env.base"
	CustomFile = ".github/.env.custom"
)

// LoadEnvFiles loads .github/.env.base and .github/.env.custom from the
// current working directory.
func LoadEnvFiles() error {
	return LoadEnvFilesFromDir(".")
}

// LoadEnvFilesFromDir loads environment files from dir.
//
// Both files are optional. When present, the custom file is loaded after
// the base file and overrides it. Variables already set in the process
// environment are overridden too so repository defaults apply consistently
// in CI runners that pre-populate unrelated values.
func LoadEnvFilesFromDir(dir string) error {
	for _, name := range []string{BaseFile, CustomFile} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// GetEnvWithFallback gets an environment variable with a fallback value.
func GetEnvWithFallback(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// FirstNonEmpty returns the value of the first set, non-empty variable in keys.
func FirstNonEmpty(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
