package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// Common errors
var (
	ErrGitNotFound        = errors.New("git command not found in PATH")
	ErrNotARepository     = errors.New("not a git repository")
	ErrUnsupportedVersion = errors.New("unsupported git version")
	ErrGitCommand         = appErrors.ErrGitCommand
)

// MinimumVersion is the oldest git that understands --allow-unrelated-histories.
const MinimumVersion = ">= 2.9.0"

// GitHubURL is the base used to turn owner/repo into a remote URL.
const GitHubURL = "https://github.com/"

const (
	exitConfigMissing = 1
	exitMergeConflict = 1
	exitDiffFound     = 1
	exitConfigNoValue = 5
)

//nolint:gochecknoglobals // compiled once
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// gitClient implements Client by running the git binary
type gitClient struct {
	repoPath  string
	logger    *logrus.Logger
	logConfig *logging.LogConfig
}

// NewClient creates a git client for the working copy at repoPath.
//
// It fails when git is not on PATH or is older than MinimumVersion.
func NewClient(ctx context.Context, repoPath string, logger *logrus.Logger, logConfig *logging.LogConfig) (Client, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitNotFound
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	g := &gitClient{
		repoPath:  repoPath,
		logger:    logger,
		logConfig: logConfig,
	}

	out, err := g.execute(ctx, "version")
	if err != nil {
		return nil, err
	}
	if err := CheckVersion(out); err != nil {
		return nil, err
	}

	return g, nil
}

// CheckVersion validates `git version` output against MinimumVersion.
func CheckVersion(output string) error {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return fmt.Errorf("%w: cannot parse %q", ErrUnsupportedVersion, strings.TrimSpace(output))
	}

	patch := match[3]
	if patch == "" {
		patch = "0"
	}
	version, err := semver.NewVersion(match[1] + "." + match[2] + "." + patch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedVersion, err)
	}

	constraint, err := semver.NewConstraint(MinimumVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: found %s, need %s", ErrUnsupportedVersion, version, MinimumVersion)
	}
	return nil
}

// RepoPath returns the working copy the client operates on
func (g *gitClient) RepoPath() string {
	return g.repoPath
}

// FetchRemote adds the remote (re-pointing an existing one) and fetches everything
func (g *gitClient) FetchRemote(ctx context.Context, ownerRepo, remote string) error {
	url := RemoteURL(ownerRepo)

	if _, err := g.run(ctx, "remote", "add", remote, url); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to add remote %s: %w", remote, err)
		}
		if _, err := g.run(ctx, "remote", "set-url", remote, url); err != nil {
			return fmt.Errorf("failed to update remote %s: %w", remote, err)
		}
	}

	if _, err := g.run(ctx, "fetch", "--all"); err != nil {
		return fmt.Errorf("failed to fetch remotes: %w", err)
	}

	return nil
}

// RemoteURL turns owner/repo into a GitHub URL. URLs and absolute paths are
// returned unchanged.
func RemoteURL(ownerRepo string) string {
	if strings.Contains(ownerRepo, "://") || filepath.IsAbs(ownerRepo) {
		return ownerRepo
	}
	return GitHubURL + ownerRepo
}

// CreateBranch checks out name at base
func (g *gitClient) CreateBranch(ctx context.Context, name, base string) error {
	if _, err := g.run(ctx, "checkout", "-B", name, base); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// Merge merges branch without committing. A conflicted merge is reported
// as MergeConflict rather than an error.
func (g *gitClient) Merge(ctx context.Context, branch string) (MergeResult, error) {
	_, err := g.run(ctx, "merge", branch, "-X", "theirs", "--allow-unrelated-histories", "--no-commit")
	if err == nil {
		return MergeClean, nil
	}
	if exitCode(err) == exitMergeConflict && g.mergeInProgress(ctx) {
		g.logger.WithField(logging.StandardFields.BranchName, branch).Warn("Merge stopped with conflicts")
		return MergeConflict, nil
	}
	return MergeClean, fmt.Errorf("failed to merge %s: %w", branch, err)
}

// mergeInProgress reports whether MERGE_HEAD exists.
func (g *gitClient) mergeInProgress(ctx context.Context) bool {
	_, err := g.run(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil
}

// ListFiles returns every tracked file
func (g *gitClient) ListFiles(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return splitNUL(out), nil
}

// ListChangedFiles returns the name-status diff of fromCommit..HEAD
func (g *gitClient) ListChangedFiles(ctx context.Context, fromCommit string) ([]FileChange, error) {
	out, err := g.run(ctx, "diff", "--name-status", "--no-renames", "-z", fromCommit, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to list changes since %s: %w", fromCommit, err)
	}
	return parseNameStatus(out), nil
}

// GetLatestCommit returns HEAD's commit id
func (g *gitClient) GetLatestCommit(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// GetCommitBefore returns the newest commit before t
func (g *gitClient) GetCommitBefore(ctx context.Context, t time.Time) (string, error) {
	out, err := g.run(ctx, "log", "-1", "--before="+t.UTC().Format(time.RFC3339), "--pretty=%H")
	if err != nil {
		return "", fmt.Errorf("failed to find commit before %s: %w", t.Format(time.RFC3339), err)
	}
	return strings.TrimSpace(out), nil
}

// Commit stages and commits files as BotIdentity
func (g *gitClient) Commit(ctx context.Context, files []string, message string) (CommitResult, error) {
	if files == nil {
		if _, err := g.run(ctx, "add", "."); err != nil {
			return CommitNoChanges, fmt.Errorf("failed to stage changes: %w", err)
		}
	}
	for _, f := range files {
		if _, err := g.run(ctx, "add", "--", f); err != nil {
			g.logger.WithField(logging.StandardFields.FilePath, f).WithError(err).Debug("Skipping path that cannot be staged")
		}
	}

	_, err := g.run(ctx, "diff-index", "--cached", "--quiet", "HEAD")
	if err == nil {
		return CommitNoChanges, nil
	}
	if exitCode(err) != exitDiffFound {
		g.logger.WithError(err).Debug("Could not compare index to HEAD, committing anyway")
	}

	if _, err = g.run(ctx,
		"-c", "user.name="+BotIdentity.Name,
		"-c", "user.email="+BotIdentity.Email,
		"commit", "--no-verify", "-m", message,
	); err != nil {
		return CommitNoChanges, fmt.Errorf("failed to commit %q: %w", message, err)
	}

	return CommitCreated, nil
}

// Push pushes HEAD to origin
func (g *gitClient) Push(ctx context.Context, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, "origin", "HEAD")

	if _, err := g.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// Reset discards local modifications and untracked files
func (g *gitClient) Reset(ctx context.Context) error {
	if _, err := g.run(ctx, "reset", "--hard"); err != nil {
		return fmt.Errorf("failed to reset working tree: %w", err)
	}
	if _, err := g.run(ctx, "clean", "-fd"); err != nil {
		return fmt.Errorf("failed to clean working tree: %w", err)
	}
	return nil
}

// Unstage clears the index
func (g *gitClient) Unstage(ctx context.Context) error {
	if _, err := g.run(ctx, "reset"); err != nil {
		return fmt.Errorf("failed to unstage: %w", err)
	}
	return nil
}

// CountCommitsBetween counts non-merge commits in base..head
func (g *gitClient) CountCommitsBetween(ctx context.Context, base, head string) (int, error) {
	out, err := g.run(ctx, "log", base+".."+head, "--oneline", "--no-merges")
	if err != nil {
		return 0, fmt.Errorf("failed to list commits %s..%s: %w", base, head, err)
	}
	return len(splitLines(out)), nil
}

// GetConfig reads a config value
func (g *gitClient) GetConfig(ctx context.Context, key, valueRegex string) (string, error) {
	args := []string{"config", "--get", key}
	if valueRegex != "" {
		args = append(args, valueRegex)
	}

	out, err := g.run(ctx, args...)
	if err != nil {
		if exitCode(err) == exitConfigMissing {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config %s: %w", key, err)
	}
	return strings.TrimSpace(out), nil
}

// SetConfig writes a config value
func (g *gitClient) SetConfig(ctx context.Context, key, value string) error {
	if _, err := g.run(ctx, "config", key, value); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// UnsetConfig removes config values; exit code 5 means nothing was set
func (g *gitClient) UnsetConfig(ctx context.Context, key, valueRegex string) (bool, error) {
	args := []string{"config", "--unset-all", key}
	if valueRegex != "" {
		args = append(args, valueRegex)
	}

	if _, err := g.run(ctx, args...); err != nil {
		if exitCode(err) == exitConfigNoValue {
			g.logger.WithField("key", key).Debug("Config already unset")
			return false, nil
		}
		return false, fmt.Errorf("failed to unset config %s: %w", key, err)
	}
	return true, nil
}

// run executes git inside the working copy.
func (g *gitClient) run(ctx context.Context, args ...string) (string, error) {
	return g.execute(ctx, append([]string{"-C", g.repoPath}, args...)...)
}

// execute runs git with args and returns stdout. Failures wrap
// ErrGitCommand with stderr (or stdout) and keep the underlying
// *exec.ExitError reachable through errors.As.
func (g *gitClient) execute(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // arguments are constructed by this package
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := logging.WithStandardFields(g.logger, g.logConfig, logging.ComponentNames.Git)
	debug := g.logConfig != nil && g.logConfig.Debug.Git
	command := "git " + strings.Join(args, " ")
	if debug {
		logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation: logging.OperationTypes.GitCommand,
			"command":                        command,
		}).Debug("Executing git command")
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if debug {
		logger.WithFields(logrus.Fields{
			"command":                         command,
			logging.StandardFields.DurationMs: duration.Milliseconds(),
			logging.StandardFields.ExitCode:   cmd.ProcessState.ExitCode(),
			"stdout":                          stdout.String(),
		}).Trace("Git command finished")
	}

	if err == nil {
		return stdout.String(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrGitCommand, command, ctxErr)
	}

	errMsg := strings.TrimSpace(stderr.String())
	if errMsg == "" {
		errMsg = strings.TrimSpace(stdout.String())
	}
	if strings.Contains(errMsg, "not a git repository") {
		return "", fmt.Errorf("%w: %s", ErrNotARepository, g.repoPath)
	}

	logger.WithFields(logrus.Fields{
		"command":                       command,
		logging.StandardFields.ExitCode: exitCode(err),
		logging.StandardFields.Error:    errMsg,
	}).Debug("Git command failed")

	if errMsg == "" {
		return "", fmt.Errorf("%w: %s: %w", ErrGitCommand, command, err)
	}
	return "", fmt.Errorf("%w: %s: %w", ErrGitCommand, errMsg, err)
}

// exitCode extracts the process exit code from err, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
