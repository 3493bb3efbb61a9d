package cli

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/gh"
	"github.com/mrz1836/go-template-sync/internal/git"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// Dependencies builds the collaborators commands talk to
type Dependencies struct {
	NewGitClient  func(ctx context.Context, repoPath string, logger *logrus.Logger, logConfig *logging.LogConfig) (git.Client, error)
	NewGHClient   func(ctx context.Context, token string, logger *logrus.Logger, logConfig *logging.LogConfig) (gh.Client, error)
	NewFilesystem func(root string) billy.Filesystem
}

// DefaultDependencies returns collaborators backed by the git and gh binaries
// and the local filesystem
func DefaultDependencies() *Dependencies {
	return &Dependencies{
		NewGitClient:  git.NewClient,
		NewGHClient:   gh.NewClient,
		NewFilesystem: func(root string) billy.Filesystem { return osfs.New(root) },
	}
}
