package gh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestClient(runner CommandRunner) Client {
	return NewClientWithRunner(runner, nil, WithThrottle(NewThrottle(ThrottleConfig{RequestsPerSecond: 1000, BurstSize: 100})))
}

func notFound() error {
	return &CommandError{Command: "gh", Stderr: "gh: Not Found (HTTP 404)", Err: errors.New("exit status 1")} //nolint:err113 // test-only error
}

func TestGetRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("parses template repository", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("Run", ctx, "gh", []string{"api", "repos/acme/widget"}).Return([]byte(`{
			"name": "widget",
			"full_name": "acme/widget",
			"default_branch": "main",
			"created_at": "2024-03-01T10:00:00Z",
			"owner": {"login": "acme"},
			"template_repository": {"name": "go-starter", "full_name": "acme/go-starter", "default_branch": "trunk"}
		}`), nil)

		repo, err := newTestClient(runner).GetRepository(ctx, "acme/widget")
		require.NoError(t, err)
		assert.Equal(t, "widget", repo.Name)
		assert.Equal(t, "acme", repo.Owner.Login)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), repo.CreatedAt.UTC())
		require.NotNil(t, repo.TemplateRepository)
		assert.Equal(t, "acme/go-starter", repo.TemplateRepository.FullName)
		assert.Equal(t, "trunk", repo.TemplateRepository.DefaultBranch)
		runner.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("Run", ctx, "gh", []string{"api", "repos/acme/missing"}).Return(nil, notFound())

		_, err := newTestClient(runner).GetRepository(ctx, "acme/missing")
		require.ErrorIs(t, err, ErrRepositoryNotFound)
	})

	t.Run("bad json", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("Run", ctx, "gh", []string{"api", "repos/acme/widget"}).Return([]byte("{"), nil)

		_, err := newTestClient(runner).GetRepository(ctx, "acme/widget")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse repository")
	})
}

func TestCreatePR(t *testing.T) {
	ctx := context.Background()
	req := PRRequest{Title: "Sync from template@main", Body: "body", Head: "template-sync/main", Base: "main"}

	t.Run("success", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("RunWithInput", ctx,
			mock.MatchedBy(func(input []byte) bool {
				return string(input) == `{"title":"Sync from template@main","body":"body","head":"template-sync/main","base":"main"}`
			}),
			"gh", []string{"api", "repos/acme/widget/pulls", "--method", "POST", "--input", "-"},
		).Return([]byte(`{"number": 7, "state": "open", "html_url": "https://github.com/acme/widget/pull/7"}`), nil)

		pr, err := newTestClient(runner).CreatePR(ctx, "acme/widget", req)
		require.NoError(t, err)
		assert.Equal(t, 7, pr.Number)
		assert.Equal(t, "https://github.com/acme/widget/pull/7", pr.HTMLURL)
		runner.AssertExpectations(t)
	})

	t.Run("validation failed", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("RunWithInput", ctx, mock.Anything, "gh", mock.Anything).
			Return(nil, &CommandError{Command: "gh", Stderr: "gh: Validation Failed (HTTP 422)"})

		_, err := newTestClient(runner).CreatePR(ctx, "acme/widget", req)
		require.ErrorIs(t, err, ErrPRValidationFailed)
	})
}

func TestListPRs(t *testing.T) {
	ctx := context.Background()

	t.Run("qualifies head with owner", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("Run", ctx, "gh", []string{
			"api", "repos/acme/widget/pulls",
			"--method", "GET", "-f", "state=open", "-f", "head=acme:template-sync/main", "-f", "base=main",
		}).Return([]byte(`[{"number": 3}, {"number": 4}]`), nil)

		prs, err := newTestClient(runner).ListPRs(ctx, "acme/widget", "template-sync/main", "main")
		require.NoError(t, err)
		require.Len(t, prs, 2)
		assert.Equal(t, 3, prs[0].Number)
		runner.AssertExpectations(t)
	})

	t.Run("qualified head kept", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("Run", ctx, "gh", []string{
			"api", "repos/acme/widget/pulls",
			"--method", "GET", "-f", "state=open", "-f", "head=fork:feature",
		}).Return([]byte(`[]`), nil)

		prs, err := newTestClient(runner).ListPRs(ctx, "acme/widget", "fork:feature", "")
		require.NoError(t, err)
		assert.Empty(t, prs)
	})

	t.Run("bad repository format", func(t *testing.T) {
		_, err := newTestClient(&MockCommandRunner{}).ListPRs(ctx, "widget", "b", "main")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owner/repo")
	})
}

func TestUpdatePR(t *testing.T) {
	ctx := context.Background()
	update := PRUpdate{Title: "new title", Base: "main"}

	t.Run("sends patch", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("RunWithInput", ctx, []byte(`{"title":"new title","base":"main"}`),
			"gh", []string{"api", "repos/acme/widget/pulls/9", "--method", "PATCH", "--input", "-"},
		).Return([]byte(`{}`), nil)

		require.NoError(t, newTestClient(runner).UpdatePR(ctx, "acme/widget", 9, update))
		runner.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("RunWithInput", ctx, mock.Anything, "gh", mock.Anything).Return(nil, notFound())

		err := newTestClient(runner).UpdatePR(ctx, "acme/widget", 9, update)
		require.ErrorIs(t, err, ErrPRNotFound)
	})
}

func TestAddLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("no labels skips the call", func(t *testing.T) {
		runner := &MockCommandRunner{}
		require.NoError(t, newTestClient(runner).AddLabels(ctx, "acme/widget", 9, nil))
		runner.AssertNotCalled(t, "RunWithInput", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("posts labels", func(t *testing.T) {
		runner := &MockCommandRunner{}
		runner.On("RunWithInput", ctx, []byte(`{"labels":["sync","template"]}`),
			"gh", []string{"api", "repos/acme/widget/issues/9/labels", "--method", "POST", "--input", "-"},
		).Return([]byte(`[]`), nil)

		require.NoError(t, newTestClient(runner).AddLabels(ctx, "acme/widget", 9, []string{"sync", "template"}))
		runner.AssertExpectations(t)
	})
}

func TestThrottleCancellation(t *testing.T) {
	throttle := NewThrottle(ThrottleConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	runner := &MockCommandRunner{}
	runner.On("Run", mock.Anything, "gh", mock.Anything).Return([]byte(`[]`), nil)
	client := NewClientWithRunner(runner, nil, WithThrottle(throttle))

	_, err := client.ListPRs(context.Background(), "acme/widget", "b", "main")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.ListPRs(ctx, "acme/widget", "b", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	runner.AssertNumberOfCalls(t, "Run", 1)
	assert.Equal(t, int64(1), throttle.Stats().TotalCalls)
}

func TestNewThrottleDefaults(t *testing.T) {
	throttle := NewThrottle(ThrottleConfig{})
	assert.InDelta(t, 5.0, float64(throttle.limiter.Limit()), 0.0001)
	assert.Equal(t, 5, throttle.limiter.Burst())
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isNotFoundError(notFound()))
	assert.False(t, isNotFoundError(nil))
	assert.True(t, isValidationFailedError(&CommandError{Stderr: "HTTP 422"}))
	assert.False(t, isValidationFailedError(notFound()))
}
