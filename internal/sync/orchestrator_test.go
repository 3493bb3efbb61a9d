package sync

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-template-sync/internal/config"
	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/gh"
	"github.com/mrz1836/go-template-sync/internal/git"
)

var repoCreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	cfg  *config.Config
	git  *git.MockClient
	gh   *gh.MockClient
	fs   billy.Filesystem
	opts *Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		cfg: &config.Config{
			Template:            "acme/go-starter",
			TemplateBranch:      "main",
			Repository:          "acme/widget",
			FromName:            "foo",
			ToName:              "bar",
			PRBranch:            "template-sync/main",
			PRBase:              "main",
			PRTitle:             "Sync from template@main",
			PRBody:              "body",
			TemplateSyncFile:    ".templatesync",
			Token:               "tok",
			RepositoryCreatedAt: repoCreatedAt,
		},
		git:  &git.MockClient{},
		gh:   &gh.MockClient{},
		fs:   memfs.New(),
		opts: DefaultOptions(),
	}

	// credential swap around every run; nothing was configured before
	f.git.On("RepoPath").Return("/work/widget").Maybe()
	f.git.On("GetConfig", mock.Anything, git.ExtraHeaderKey, mock.Anything).Return("", nil).Maybe()
	f.git.On("UnsetConfig", mock.Anything, git.ExtraHeaderKey, mock.Anything).Return(false, nil).Maybe()
	f.git.On("SetConfig", mock.Anything, git.ExtraHeaderKey, git.BasicAuthHeader("tok")).Return(nil).Maybe()

	return f
}

func (f *fixture) orchestrator() *Orchestrator {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewOrchestrator(f.cfg, f.git, f.gh, f.fs, f.opts, logger, nil)
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(f.fs, path, []byte(content), 0o644))
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := util.ReadFile(f.fs, path)
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) exists(path string) bool {
	_, err := f.fs.Stat(path)
	return err == nil
}

// expectUpstream sets up the states every run shares up to the change set
func (f *fixture) expectUpstream(base, latest string, changes []git.FileChange) {
	f.git.On("FetchRemote", mock.Anything, "acme/go-starter", config.TemplateRemote).Return(nil).Once()
	f.git.On("CreateBranch", mock.Anything, "template/main", "refs/remotes/template/main").Return(nil).Once()
	f.git.On("GetLatestCommit", mock.Anything).Return(latest, nil).Once()
	f.git.On("ListChangedFiles", mock.Anything, base).Return(changes, nil).Once()
}

func (f *fixture) expectMerge(changed []string) {
	f.git.On("CreateBranch", mock.Anything, "template-sync/main", "origin/main").Return(nil).Once()
	f.git.On("Merge", mock.Anything, "refs/heads/template/main").Return(git.MergeClean, nil).Once()
	f.git.On("Unstage", mock.Anything).Return(nil).Once()
	if len(changed) > 0 {
		f.git.On("Commit", mock.Anything, changed, MessageChanged).Return(git.CommitCreated, nil).Once()
	}
}

func TestRunFirstSyncWithRename(t *testing.T) {
	f := newFixture(t)
	f.cfg.Rename = true
	f.cfg.PRLabels = []string{"template-sync"}

	// template state checked out in the worktree
	f.write(t, "README.md", "# foo\n")
	f.write(t, "pkg/foo.go", "package foo\n\nfunc NewFoo() *foo_impl { return nil }\n")
	f.write(t, "logo.png", "\x89PNG\r\n\x1a\nfoo\x00")
	// downstream copy of a file the template removed
	f.write(t, "old/bar.txt", "legacy")

	f.git.On("Reset", mock.Anything).Return(nil).Twice()
	f.git.On("GetCommitBefore", mock.Anything, repoCreatedAt).Return("base123", nil).Once()
	f.expectUpstream("base123", "latest456", []git.FileChange{
		{Path: "README.md", Status: git.StatusModified},
		{Path: "pkg/foo.go", Status: git.StatusAdded},
		{Path: "logo.png", Status: git.StatusModified},
		{Path: "old/foo.txt", Status: git.StatusDeleted},
	})

	renamed := []string{"README.md", "pkg/bar.go", "logo.png"}
	f.git.On("Commit", mock.Anything, renamed, MessageRenamed).Return(git.CommitCreated, nil).Once()
	f.expectMerge(renamed)
	f.git.On("Commit", mock.Anything, []string{"old/bar.txt"}, MessageDeleted).Return(git.CommitCreated, nil).Once()
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()
	f.git.On("Push", mock.Anything, true).Return(nil).Once()
	f.git.On("CountCommitsBetween", mock.Anything, "origin/main", "template-sync/main").Return(4, nil).Once()

	f.gh.On("ListPRs", mock.Anything, "acme/widget", "template-sync/main", "main").Return([]gh.PR{}, nil).Once()
	f.gh.On("CreatePR", mock.Anything, "acme/widget", gh.PRRequest{
		Title: "Sync from template@main",
		Body:  "body",
		Head:  "template-sync/main",
		Base:  "main",
	}).Return(&gh.PR{Number: 12, HTMLURL: "https://github.com/acme/widget/pull/12"}, nil).Once()
	f.gh.On("AddLabels", mock.Anything, "acme/widget", 12, []string{"template-sync"}).Return(nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.FirstSync)
	assert.Equal(t, "base123", result.BaseCommit)
	assert.Equal(t, "latest456", result.LatestCommit)
	assert.Equal(t, renamed, result.Changed)
	assert.Equal(t, []string{"old/bar.txt"}, result.Deleted)
	assert.Equal(t, []string{"README.md", "pkg/foo.go"}, result.Rewritten)
	assert.Equal(t, git.CommitCreated, result.RenameCommit)
	assert.Equal(t, git.CommitCreated, result.ChangeCommit)
	assert.Equal(t, git.CommitCreated, result.DeleteCommit)
	assert.Equal(t, git.CommitCreated, result.CheckpointCommit)
	assert.True(t, result.Pushed)
	assert.True(t, result.PRCreated)
	assert.Equal(t, 12, result.PRNumber)
	assert.True(t, result.HasPullRequest())

	assert.Equal(t, "# bar\n", f.read(t, "README.md"))
	assert.Equal(t, "package bar\n\nfunc NewBar() *bar_impl { return nil }\n", f.read(t, "pkg/bar.go"))
	assert.False(t, f.exists("pkg/foo.go"))
	assert.Equal(t, "\x89PNG\r\n\x1a\nfoo\x00", f.read(t, "logo.png"))
	assert.False(t, f.exists("old/bar.txt"))
	assert.Equal(t, "latest456", f.read(t, ".templatesync"))

	f.git.AssertExpectations(t)
	f.gh.AssertExpectations(t)
}

func TestRunDryRunStopsBeforePush(t *testing.T) {
	f := newFixture(t)
	f.opts.WithDryRun(true)
	f.write(t, "README.md", "# foo\n")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.git.On("GetCommitBefore", mock.Anything, repoCreatedAt).Return("base123", nil).Once()
	f.expectUpstream("base123", "latest456", []git.FileChange{{Path: "README.md", Status: git.StatusModified}})
	f.expectMerge([]string{"README.md"})
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Pushed)
	assert.False(t, result.HasPullRequest())
	assert.Equal(t, "# foo\n", f.read(t, "README.md"))
	assert.Equal(t, "latest456", f.read(t, ".templatesync"))

	f.git.AssertExpectations(t)
	f.git.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	f.git.AssertNotCalled(t, "CountCommitsBetween", mock.Anything, mock.Anything, mock.Anything)
	f.gh.AssertNotCalled(t, "ListPRs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.gh.AssertNotCalled(t, "CreatePR", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunNoUpstreamChanges(t *testing.T) {
	f := newFixture(t)
	f.write(t, ".templatesync", "latest456\n")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.expectUpstream("latest456", "latest456", []git.FileChange{})
	f.expectMerge(nil)
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitNoChanges, nil).Once()
	f.git.On("Push", mock.Anything, true).Return(nil).Once()
	f.git.On("CountCommitsBetween", mock.Anything, "origin/main", "template-sync/main").Return(0, nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.FirstSync)
	assert.Equal(t, "latest456", result.LastSyncCommit)
	assert.Empty(t, result.Changed)
	assert.Empty(t, result.Deleted)
	assert.Equal(t, git.CommitNoChanges, result.ChangeCommit)
	assert.Equal(t, git.CommitNoChanges, result.CheckpointCommit)
	assert.False(t, result.HasPullRequest())

	f.git.AssertExpectations(t)
	f.git.AssertNotCalled(t, "GetCommitBefore", mock.Anything, mock.Anything)
	f.gh.AssertNotCalled(t, "ListPRs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunUpdatesExistingPullRequest(t *testing.T) {
	f := newFixture(t)
	f.write(t, ".templatesync", "prev")
	f.write(t, "Makefile", "all:\n")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.expectUpstream("prev", "next", []git.FileChange{{Path: "Makefile", Status: git.StatusModified}})
	f.expectMerge([]string{"Makefile"})
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()
	f.git.On("Push", mock.Anything, true).Return(nil).Once()
	f.git.On("CountCommitsBetween", mock.Anything, "origin/main", "template-sync/main").Return(2, nil).Once()

	f.gh.On("ListPRs", mock.Anything, "acme/widget", "template-sync/main", "main").
		Return([]gh.PR{{Number: 7, HTMLURL: "https://github.com/acme/widget/pull/7"}, {Number: 3}}, nil).Once()
	f.gh.On("UpdatePR", mock.Anything, "acme/widget", 7, gh.PRUpdate{
		Title: "Sync from template@main",
		Base:  "main",
	}).Return(nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.PRUpdated)
	assert.False(t, result.PRCreated)
	assert.Equal(t, 7, result.PRNumber)
	assert.Equal(t, "next", f.read(t, ".templatesync"))

	f.gh.AssertExpectations(t)
	f.gh.AssertNotCalled(t, "CreatePR", mock.Anything, mock.Anything, mock.Anything)
	f.gh.AssertNotCalled(t, "AddLabels", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunFiltersIgnoredFiles(t *testing.T) {
	f := newFixture(t)
	f.opts.WithDryRun(true)
	f.cfg.IgnorePaths = []string{"docs/**", ".github/**"}
	f.write(t, ".templatesync", "prev")
	f.write(t, "main.go", "package main\n")
	f.write(t, "docs/guide.md", "guide")
	f.write(t, ".github/old.yml", "old")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.expectUpstream("prev", "next", []git.FileChange{
		{Path: "main.go", Status: git.StatusModified},
		{Path: "docs/guide.md", Status: git.StatusModified},
		{Path: ".github/old.yml", Status: git.StatusDeleted},
	})
	f.expectMerge([]string{"main.go"})
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, result.Changed)
	assert.Empty(t, result.Deleted)
	assert.Equal(t, []string{"docs/guide.md", ".github/old.yml"}, result.Ignored)
	assert.True(t, f.exists(".github/old.yml"))
	f.git.AssertExpectations(t)
}

func TestRunFirstSyncWithoutEarlierTemplateCommit(t *testing.T) {
	f := newFixture(t)
	f.opts.WithDryRun(true)
	f.write(t, ".templatesync", "  \n")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.git.On("FetchRemote", mock.Anything, "acme/go-starter", config.TemplateRemote).Return(nil).Once()
	f.git.On("CreateBranch", mock.Anything, "template/main", "refs/remotes/template/main").Return(nil).Once()
	f.git.On("GetCommitBefore", mock.Anything, repoCreatedAt).Return("", nil).Once()
	f.git.On("GetLatestCommit", mock.Anything).Return("latest456", nil).Once()
	f.git.On("ListFiles", mock.Anything).Return([]string{"a.go", "b.go"}, nil).Once()
	f.expectMerge([]string{"a.go", "b.go"})
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.FirstSync)
	assert.Empty(t, result.BaseCommit)
	assert.Equal(t, []string{"a.go", "b.go"}, result.Changed)
	f.git.AssertExpectations(t)
	f.git.AssertNotCalled(t, "ListChangedFiles", mock.Anything, mock.Anything)
}

func TestRunFailureRestoresCredentials(t *testing.T) {
	f := newFixture(t)
	f.write(t, ".templatesync", "prev")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.expectUpstream("prev", "next", []git.FileChange{})
	f.expectMerge(nil)
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()
	f.git.On("Push", mock.Anything, true).Return(git.ErrGitCommand).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, git.ErrGitCommand)

	step, ok := appErrors.FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, string(StatePush), step)
	assert.Contains(t, err.Error(), "failed to push")
	assert.False(t, result.Pushed)

	// one unset before setting the token, one to clear it afterwards
	f.git.AssertNumberOfCalls(t, "UnsetConfig", 2)
	f.git.AssertNumberOfCalls(t, "SetConfig", 1)
	f.gh.AssertNotCalled(t, "ListPRs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunMergeConflictIsRecoverable(t *testing.T) {
	f := newFixture(t)
	f.opts.WithDryRun(true)
	f.write(t, ".templatesync", "prev")

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.expectUpstream("prev", "next", []git.FileChange{{Path: "a.go", Status: git.StatusModified}})
	f.git.On("CreateBranch", mock.Anything, "template-sync/main", "origin/main").Return(nil).Once()
	f.git.On("Merge", mock.Anything, "refs/heads/template/main").Return(git.MergeConflict, nil).Once()
	f.git.On("Unstage", mock.Anything).Return(nil).Once()
	f.git.On("Commit", mock.Anything, []string{"a.go"}, MessageChanged).Return(git.CommitCreated, nil).Once()
	f.git.On("Commit", mock.Anything, []string{".templatesync"}, MessageCheckpoint).Return(git.CommitCreated, nil).Once()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, git.MergeConflict, result.MergeResult)
	f.git.AssertExpectations(t)
}

func TestRunFetchFailureAborts(t *testing.T) {
	f := newFixture(t)

	f.git.On("Reset", mock.Anything).Return(nil).Once()
	f.git.On("FetchRemote", mock.Anything, "acme/go-starter", config.TemplateRemote).Return(git.ErrGitCommand).Once()

	_, err := f.orchestrator().Run(context.Background())
	require.ErrorIs(t, err, git.ErrGitCommand)

	step, _ := appErrors.FailedStep(err)
	assert.Equal(t, string(StateFetchUpstream), step)
	assert.False(t, f.exists(".templatesync"))
	f.git.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orchestrator().Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	f.git.AssertNotCalled(t, "Reset", mock.Anything)
}

func TestPlan(t *testing.T) {
	f := newFixture(t)
	f.cfg.IgnorePaths = []string{"*.md"}
	f.write(t, ".templatesync", "prev")

	f.expectUpstream("prev", "next", []git.FileChange{
		{Path: "README.md", Status: git.StatusModified},
		{Path: "cmd/main.go", Status: git.StatusAdded},
		{Path: "old.go", Status: git.StatusDeleted},
	})

	result, err := f.orchestrator().Plan(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, "prev", result.LastSyncCommit)
	assert.Equal(t, "next", result.LatestCommit)
	assert.Equal(t, []string{"cmd/main.go"}, result.Changed)
	assert.Equal(t, []string{"old.go"}, result.Deleted)
	assert.Equal(t, []string{"README.md"}, result.Ignored)
	assert.Equal(t, "prev", f.read(t, ".templatesync"))

	f.git.AssertExpectations(t)
	f.git.AssertNotCalled(t, "Reset", mock.Anything)
	f.git.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoteBase(t *testing.T) {
	assert.Equal(t, "origin/main", remoteBase("main"))
	assert.Equal(t, "origin/main", remoteBase("origin/main"))
	assert.Equal(t, "origin/release/v1", remoteBase("release/v1"))
}

func TestNewOrchestratorDefaults(t *testing.T) {
	cfg := &config.Config{DryRun: true, TemplateSyncFile: ".templatesync"}
	o := NewOrchestrator(cfg, &git.MockClient{}, &gh.MockClient{}, memfs.New(), nil, nil, nil)

	assert.True(t, o.options.DryRun)
	assert.True(t, o.options.ForcePush)
	assert.NotNil(t, o.logger)
	assert.Equal(t, ".templatesync", o.checkpoints.Path())
}

func TestApplyDeletesSkipsMissing(t *testing.T) {
	f := newFixture(t)
	f.write(t, "keep/x.txt", "x")

	r := f.orchestrator().newRun()
	r.set = &ChangeSet{Deleted: []string{"keep/x.txt", "never/existed.txt"}}
	f.git.On("Commit", mock.Anything, []string{"keep/x.txt"}, MessageDeleted).Return(git.CommitCreated, nil).Once()

	require.NoError(t, r.applyDeletes(context.Background()))
	assert.Equal(t, []string{"keep/x.txt"}, r.result.Deleted)

	_, err := f.fs.Stat("keep/x.txt")
	require.ErrorIs(t, err, os.ErrNotExist)
}
