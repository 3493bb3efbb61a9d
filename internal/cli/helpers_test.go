package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-template-sync/internal/gh"
	"github.com/mrz1836/go-template-sync/internal/git"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// clearEnv unsets every variable configuration reads, restoring them after the test
func clearEnv(t *testing.T) {
	t.Helper()

	keys := []string{
		"GITHUB_TOKEN", "GH_TOKEN", "GITHUB_REPOSITORY",
		"TEMPLATE_SYNC_TOKEN", "TEMPLATE_SYNC_TEMPLATE", "TEMPLATE_SYNC_TEMPLATE_BRANCH",
		"TEMPLATE_SYNC_REPOSITORY", "TEMPLATE_SYNC_FROM_NAME", "TEMPLATE_SYNC_TO_NAME",
		"TEMPLATE_SYNC_PR_BRANCH_PREFIX", "TEMPLATE_SYNC_PR_BRANCH", "TEMPLATE_SYNC_PR_BASE",
		"TEMPLATE_SYNC_PR_TITLE", "TEMPLATE_SYNC_PR_BODY", "TEMPLATE_SYNC_FILE",
		"TEMPLATE_SYNC_RENAME", "TEMPLATE_SYNC_DRY_RUN", "TEMPLATE_SYNC_IGNORE_PATHS",
		"TEMPLATE_SYNC_PR_LABELS",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// writeConfig writes a config file into a temp dir and returns its path
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template-sync.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testDeps wires mocks into Dependencies
type testDeps struct {
	git *git.MockClient
	gh  *gh.MockClient
	fs  billy.Filesystem

	ghErr  error
	gitErr error

	token    string
	repoPath string
}

func newTestDeps() *testDeps {
	return &testDeps{
		git: &git.MockClient{},
		gh:  &gh.MockClient{},
		fs:  memfs.New(),
	}
}

func (d *testDeps) dependencies() *Dependencies {
	return &Dependencies{
		NewGitClient: func(_ context.Context, repoPath string, _ *logrus.Logger, _ *logging.LogConfig) (git.Client, error) {
			d.repoPath = repoPath
			if d.gitErr != nil {
				return nil, d.gitErr
			}
			return d.git, nil
		},
		NewGHClient: func(_ context.Context, token string, _ *logrus.Logger, _ *logging.LogConfig) (gh.Client, error) {
			d.token = token
			if d.ghErr != nil {
				return nil, d.ghErr
			}
			return d.gh, nil
		},
		NewFilesystem: func(string) billy.Filesystem { return d.fs },
	}
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, deps *Dependencies, args ...string) (string, string, error) {
	t.Helper()

	if deps == nil {
		deps = newTestDeps().dependencies()
	}

	cmd := NewRootCmdWithDependencies(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
