package gh

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/jsonutil"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// Common errors
var (
	ErrGHNotFound         = errors.New("gh CLI not found in PATH")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrPRNotFound         = appErrors.ErrPRNotFound
	ErrPRValidationFailed = errors.New("PR validation failed - branch may already have PR or conflict exists")
)

// githubClient implements the Client interface using gh CLI
type githubClient struct {
	runner   CommandRunner
	logger   *logrus.Logger
	throttle *Throttle
	audit    *logging.AuditLogger
}

// Option configures a client built by NewClientWithRunner
type Option func(*githubClient)

// WithThrottle replaces the default throttle
func WithThrottle(t *Throttle) Option {
	return func(g *githubClient) {
		if t != nil {
			g.throttle = t
		}
	}
}

// NewClient creates a new GitHub client using gh CLI.
//
// The token is handed to gh through GH_TOKEN in the child environment only.
func NewClient(_ context.Context, token string, logger *logrus.Logger, logConfig *logging.LogConfig) (Client, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return nil, ErrGHNotFound
	}
	if token == "" {
		return nil, appErrors.AuthenticationError("GitHub", "no token provided")
	}

	return NewClientWithRunner(NewCommandRunner(logger, logConfig, token), logger), nil
}

// NewClientWithRunner creates a client around an existing command runner
func NewClientWithRunner(runner CommandRunner, logger *logrus.Logger, opts ...Option) Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	g := &githubClient{
		runner:   runner,
		logger:   logger,
		throttle: NewThrottle(DefaultThrottleConfig()),
		audit:    logging.NewAuditLogger(logger),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetRepository returns repository metadata
func (g *githubClient) GetRepository(ctx context.Context, repo string) (*Repository, error) {
	g.audit.LogRepositoryAccess(repo, "get_repository")

	output, err := g.api(ctx, nil, fmt.Sprintf("repos/%s", repo))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repo)
		}
		return nil, appErrors.GitHubAPIError("get repository", repo, err)
	}

	r, err := jsonutil.UnmarshalJSON[Repository](output)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "parse repository")
	}

	return &r, nil
}

// CreatePR creates a new pull request
func (g *githubClient) CreatePR(ctx context.Context, repo string, req PRRequest) (*PR, error) {
	g.audit.LogRepositoryAccess(repo, "create_pull_request")

	input, err := jsonutil.MarshalJSON(req)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "marshal PR request")
	}

	output, err := g.api(ctx, input, fmt.Sprintf("repos/%s/pulls", repo), "--method", "POST", "--input", "-")
	if err != nil {
		if isValidationFailedError(err) {
			return nil, fmt.Errorf("%w: %s -> %s: %w", ErrPRValidationFailed, req.Head, req.Base, err)
		}
		return nil, appErrors.GitHubAPIError("create pull request", repo, err)
	}

	pr, err := jsonutil.UnmarshalJSON[PR](output)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "parse PR")
	}

	g.logger.WithFields(logrus.Fields{
		logging.StandardFields.Repository: repo,
		logging.StandardFields.PRNumber:   pr.Number,
		logging.StandardFields.BranchName: req.Head,
		logging.StandardFields.BaseBranch: req.Base,
	}).Debug("Pull request created")

	return &pr, nil
}

// ListPRs lists open pull requests from head into base. An unqualified head
// is prefixed with the repository owner as the API requires.
func (g *githubClient) ListPRs(ctx context.Context, repo, head, base string) ([]PR, error) {
	qualified, err := qualifyHead(repo, head)
	if err != nil {
		return nil, err
	}

	args := []string{"--method", "GET", "-f", "state=open", "-f", "head=" + qualified}
	if base != "" {
		args = append(args, "-f", "base="+base)
	}

	output, err := g.api(ctx, nil, fmt.Sprintf("repos/%s/pulls", repo), args...)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repo)
		}
		return nil, appErrors.GitHubAPIError("list pull requests", repo, err)
	}

	prs, err := jsonutil.UnmarshalJSON[[]PR](output)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "parse PRs")
	}

	return prs, nil
}

// UpdatePR updates an existing pull request
func (g *githubClient) UpdatePR(ctx context.Context, repo string, number int, update PRUpdate) error {
	g.audit.LogRepositoryAccess(repo, "update_pull_request")

	input, err := jsonutil.MarshalJSON(update)
	if err != nil {
		return appErrors.WrapWithContext(err, "marshal PR update")
	}

	_, err = g.api(ctx, input, fmt.Sprintf("repos/%s/pulls/%d", repo, number), "--method", "PATCH", "--input", "-")
	if err != nil {
		if isNotFoundError(err) {
			return fmt.Errorf("%w: #%d", ErrPRNotFound, number)
		}
		return appErrors.GitHubAPIError("update pull request", repo, err)
	}

	return nil
}

// AddLabels adds labels to a pull request. Labels that do not exist yet are
// created by GitHub.
func (g *githubClient) AddLabels(ctx context.Context, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	input, err := jsonutil.MarshalJSON(map[string][]string{"labels": labels})
	if err != nil {
		return appErrors.WrapWithContext(err, "marshal labels")
	}

	_, err = g.api(ctx, input, fmt.Sprintf("repos/%s/issues/%d/labels", repo, number), "--method", "POST", "--input", "-")
	if err != nil {
		if isNotFoundError(err) {
			return fmt.Errorf("%w: #%d", ErrPRNotFound, number)
		}
		return appErrors.GitHubAPIError("add labels", repo, err)
	}

	return nil
}

// api waits on the throttle and runs `gh api <endpoint> <args...>`
func (g *githubClient) api(ctx context.Context, input []byte, endpoint string, args ...string) ([]byte, error) {
	if err := g.throttle.Wait(ctx); err != nil {
		return nil, appErrors.WrapWithContext(err, "wait for rate limiter")
	}

	full := append([]string{"api", endpoint}, args...)
	if input != nil {
		return g.runner.RunWithInput(ctx, input, "gh", full...)
	}
	return g.runner.Run(ctx, "gh", full...)
}

// qualifyHead returns head as owner:branch
func qualifyHead(repo, head string) (string, error) {
	if strings.Contains(head, ":") {
		return head, nil
	}
	owner, _, ok := strings.Cut(repo, "/")
	if !ok || owner == "" {
		return "", appErrors.FormatError("repository", repo, "owner/repo")
	}
	return owner + ":" + head, nil
}

// isNotFoundError checks if the error is a 404 from GitHub API
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "HTTP 404") ||
		strings.Contains(errStr, "Not Found") ||
		strings.Contains(errStr, "could not resolve")
}

// isValidationFailedError checks if the error is a 422 from GitHub API
func isValidationFailedError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "HTTP 422") ||
		strings.Contains(errStr, "Validation Failed") ||
		strings.Contains(errStr, "Unprocessable Entity")
}
