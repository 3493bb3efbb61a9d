package sync

import (
	"errors"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
)

// CheckpointStore persists the last synchronized template commit as the
// entire content of a file in the worktree.
type CheckpointStore struct {
	fs   billy.Filesystem
	path string
}

// NewCheckpointStore creates a store for path on fs
func NewCheckpointStore(fs billy.Filesystem, path string) *CheckpointStore {
	return &CheckpointStore{fs: fs, path: path}
}

// Path returns the repository-relative checkpoint path
func (s *CheckpointStore) Path() string {
	return s.path
}

// Read returns the stored commit id. A missing file returns "" and no error.
// A file that is blank after trimming returns ErrCheckpointEmpty.
func (s *CheckpointStore) Read() (string, error) {
	data, err := util.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", appErrors.FileReadError(s.path, err)
	}

	commit := strings.TrimSpace(string(data))
	if commit == "" {
		return "", appErrors.ErrCheckpointEmpty
	}
	return commit, nil
}

// Write replaces the stored commit id
func (s *CheckpointStore) Write(commit string) error {
	if strings.TrimSpace(commit) == "" {
		return appErrors.ErrCheckpointEmpty
	}
	if err := util.WriteFile(s.fs, s.path, []byte(commit), 0o644); err != nil { //nolint:gosec // tracked repository file
		return appErrors.FileWriteError(s.path, err)
	}
	return nil
}
