// Package sync provides the template synchronization engine
package sync

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/config"
	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/gh"
	"github.com/mrz1836/go-template-sync/internal/git"
	"github.com/mrz1836/go-template-sync/internal/logging"
	"github.com/mrz1836/go-template-sync/internal/pathplan"
	"github.com/mrz1836/go-template-sync/internal/transform"
)

// State names one step of a sync run. Errors are reported as "failed to <state>".
type State string

// Sync states, in execution order
const (
	StateBootstrap            State = "bootstrap working tree"
	StateReadCheckpoint       State = "read checkpoint"
	StateFetchUpstream        State = "fetch upstream"
	StateResolveFirstSyncBase State = "resolve first sync base"
	StateComputeChangeSet     State = "compute change set"
	StateRename               State = "rename identifiers"
	StateCreatePRBranch       State = "create pr branch"
	StateFilterIgnored        State = "filter ignored files"
	StateMergeUpstream        State = "merge upstream"
	StateApplyDeletes         State = "apply deletes"
	StateWriteCheckpoint      State = "write checkpoint"
	StateDryRunGate           State = "dry run gate"
	StatePush                 State = "push"
	StateReconcilePR          State = "reconcile pull request"
)

// Commit messages used by the sync
const (
	MessageRenamed    = "renamed"
	MessageChanged    = "changed files"
	MessageDeleted    = "deleted files"
	MessageCheckpoint = "updated template sync file"
)

// Orchestrator sequences a template sync against one working copy
type Orchestrator struct {
	cfg         *config.Config
	git         git.Client
	gh          gh.Client
	fs          billy.Filesystem
	checkpoints *CheckpointStore
	resolver    *ChangeSetResolver
	credentials *git.CredentialManager
	options     *Options
	logger      *logrus.Logger
	logConfig   *logging.LogConfig
}

// NewOrchestrator creates an orchestrator. fs must be rooted at the working
// copy git operates on.
func NewOrchestrator(
	cfg *config.Config,
	gitClient git.Client,
	ghClient gh.Client,
	fs billy.Filesystem,
	opts *Options,
	logger *logrus.Logger,
	logConfig *logging.LogConfig,
) *Orchestrator {
	if opts == nil {
		opts = DefaultOptions().WithDryRun(cfg.DryRun)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Orchestrator{
		cfg:         cfg,
		git:         gitClient,
		gh:          ghClient,
		fs:          fs,
		checkpoints: NewCheckpointStore(fs, cfg.TemplateSyncFile),
		resolver:    NewChangeSetResolver(gitClient, logger),
		credentials: git.NewCredentialManager(gitClient, logger),
		options:     opts,
		logger:      logger,
		logConfig:   logConfig,
	}
}

// run holds the state of one invocation
type run struct {
	*Orchestrator

	log    *logrus.Entry
	result *Result
	set    *ChangeSet
}

func (o *Orchestrator) newRun() *run {
	log := logging.WithStandardFields(o.logger, o.logConfig, logging.ComponentNames.Sync).WithFields(logrus.Fields{
		logging.StandardFields.TemplateRepo: o.cfg.Template,
		logging.StandardFields.Repository:   o.cfg.Repository,
	})

	return &run{
		Orchestrator: o,
		log:          log,
		result: &Result{
			DryRun:           o.dryRun(),
			RenameCommit:     git.CommitNoChanges,
			ChangeCommit:     git.CommitNoChanges,
			DeleteCommit:     git.CommitNoChanges,
			CheckpointCommit: git.CommitNoChanges,
			Changed:          []string{},
			Deleted:          []string{},
			Ignored:          []string{},
			Rewritten:        []string{},
		},
	}
}

func (o *Orchestrator) dryRun() bool {
	return o.options.DryRun || o.cfg.DryRun
}

// Run executes a full sync. The token is installed as the working copy's
// HTTPS credentials for the duration of the run and the previous value is
// restored afterwards, on success or failure.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if o.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	r := o.newRun()

	r.log.WithFields(logrus.Fields{
		logging.StandardFields.Operation: logging.OperationTypes.SyncExecute,
		logging.StandardFields.DryRun:    r.result.DryRun,
	}).Info("Starting template sync")

	err := o.credentials.WithCredentials(ctx, o.cfg.Token, r.execute)
	r.result.Duration = time.Since(start)

	if err != nil {
		return r.result, err
	}

	r.log.WithField(logging.StandardFields.DurationMs, r.result.Duration.Milliseconds()).Info("Template sync completed")
	return r.result, nil
}

// Plan fetches the template and reports what a sync would bring over. It does
// not reset the working tree, rename, commit, push or touch pull requests; it
// leaves the template working branch checked out.
func (o *Orchestrator) Plan(ctx context.Context) (*Result, error) {
	start := time.Now()
	r := o.newRun()
	r.result.DryRun = true

	steps := []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateReadCheckpoint, r.readCheckpoint},
		{StateFetchUpstream, r.fetchUpstream},
		{StateResolveFirstSyncBase, r.resolveFirstSyncBase},
		{StateComputeChangeSet, r.computeChangeSet},
		{StateFilterIgnored, r.filterIgnored},
	}

	err := o.credentials.WithCredentials(ctx, o.cfg.Token, func(ctx context.Context) error {
		for _, s := range steps {
			if err := r.step(ctx, s.state, s.fn); err != nil {
				return err
			}
		}
		return nil
	})
	r.result.Duration = time.Since(start)

	return r.result, err
}

// execute runs every state in order and stops at the first failure
func (r *run) execute(ctx context.Context) error {
	steps := []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateBootstrap, r.bootstrap},
		{StateReadCheckpoint, r.readCheckpoint},
		{StateFetchUpstream, r.fetchUpstream},
		{StateResolveFirstSyncBase, r.resolveFirstSyncBase},
		{StateComputeChangeSet, r.computeChangeSet},
		{StateRename, r.renameIfConfigured},
		{StateCreatePRBranch, r.createPRBranch},
		{StateFilterIgnored, r.filterIgnored},
		{StateMergeUpstream, r.mergeUpstream},
		{StateApplyDeletes, r.applyDeletes},
		{StateWriteCheckpoint, r.writeCheckpoint},
	}

	for _, s := range steps {
		if err := r.step(ctx, s.state, s.fn); err != nil {
			return err
		}
	}

	if r.result.DryRun {
		r.log.WithField(logging.StandardFields.Step, string(StateDryRunGate)).
			Info("Dry run: skipping push and pull request")
		return nil
	}

	if err := r.step(ctx, StatePush, r.push); err != nil {
		return err
	}
	return r.step(ctx, StateReconcilePR, r.reconcilePullRequest)
}

// step runs fn, tagging any failure with state
func (r *run) step(ctx context.Context, state State, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return appErrors.StepError(string(state), err)
	}

	log := r.log.WithField(logging.StandardFields.Step, string(state))
	log.Debug("Entering state")

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.WithFields(logrus.Fields{
			logging.StandardFields.Error:      err.Error(),
			logging.StandardFields.DurationMs: time.Since(start).Milliseconds(),
		}).Error("Sync state failed")
		return appErrors.StepError(string(state), err)
	}

	log.WithField(logging.StandardFields.DurationMs, time.Since(start).Milliseconds()).Trace("State completed")
	return nil
}

func (r *run) bootstrap(ctx context.Context) error {
	return r.git.Reset(ctx)
}

func (r *run) readCheckpoint(_ context.Context) error {
	commit, err := r.checkpoints.Read()
	if errors.Is(err, appErrors.ErrCheckpointEmpty) {
		r.log.WithField(logging.StandardFields.Checkpoint, r.checkpoints.Path()).
			Warn("Template sync file is empty, treating as first sync")
		err = nil
	}
	if err != nil {
		return err
	}

	r.result.LastSyncCommit = commit
	r.result.FirstSync = commit == ""
	r.result.BaseCommit = commit

	if commit != "" {
		r.log.WithField(logging.StandardFields.CommitSHA, commit).Info("Last sync")
	}
	return nil
}

func (r *run) fetchUpstream(ctx context.Context) error {
	if err := r.git.FetchRemote(ctx, r.cfg.Template, config.TemplateRemote); err != nil {
		return err
	}

	// Start from the remote ref explicitly; a stale local branch of the same
	// name would otherwise win ref resolution on re-runs.
	working := r.cfg.WorkingBranch()
	return r.git.CreateBranch(ctx, working, "refs/remotes/"+working)
}

func (r *run) resolveFirstSyncBase(ctx context.Context) error {
	if !r.result.FirstSync || r.cfg.RepositoryCreatedAt.IsZero() {
		return nil
	}

	base, err := r.git.GetCommitBefore(ctx, r.cfg.RepositoryCreatedAt)
	if err != nil {
		return err
	}

	r.result.BaseCommit = base
	if base == "" {
		r.log.Info("First sync: no template commit predates the repository, using the full tree")
	} else {
		r.log.WithField(logging.StandardFields.CommitSHA, base).Info("First sync")
	}
	return nil
}

func (r *run) computeChangeSet(ctx context.Context) error {
	latest, err := r.git.GetLatestCommit(ctx)
	if err != nil {
		return err
	}
	r.result.LatestCommit = latest

	set, err := r.resolver.ResolveChangeSet(ctx, r.result.BaseCommit)
	if err != nil {
		return err
	}
	r.set = set

	r.log.WithFields(logrus.Fields{
		logging.StandardFields.CommitSHA: latest,
		"changed":                        len(set.Changed),
		"deleted":                        len(set.Deleted),
	}).Info("Change set computed")
	r.debugList("Changed files", set.Changed)
	r.debugList("Deleted files", set.Deleted)

	r.result.Changed = set.Changed
	r.result.Deleted = set.Deleted
	return nil
}

func (r *run) renameIfConfigured(ctx context.Context) error {
	if !r.cfg.Rename {
		return nil
	}

	conversions := transform.CreateConversions(r.cfg.FromName, r.cfg.ToName)
	if err := conversions.Validate(); err != nil {
		r.log.WithError(err).Warn("Conversion rules overlap; repeated syncs may not be stable")
	}
	r.log.WithField(logging.StandardFields.Conversions, conversions).Debug("Conversions")

	chain := transform.NewConversionChain(r.logger, conversions)
	rewriter := transform.NewRewriter(r.fs, chain, transform.Context{
		TemplateRepo: r.cfg.Template,
		Repository:   r.cfg.Repository,
		LogConfig:    r.logConfig,
	}, r.logger)

	rewritten, err := rewriter.RewriteFiles(ctx, r.set.Changed)
	if err != nil {
		return err
	}
	r.result.Rewritten = rewritten

	renamer := pathplan.NewRenamer(r.fs, conversions, r.logger)
	changed, err := renamer.RenameFiles(ctx, r.set.Changed)
	if err != nil {
		return err
	}
	deleted, err := renamer.RenameFiles(ctx, r.set.Deleted)
	if err != nil {
		return err
	}
	r.set = &ChangeSet{Changed: changed, Deleted: deleted}
	r.result.Changed = changed
	r.result.Deleted = deleted

	r.log.WithFields(logrus.Fields{
		logging.StandardFields.FromName:  r.cfg.FromName,
		logging.StandardFields.ToName:    r.cfg.ToName,
		logging.StandardFields.FileCount: len(changed) + len(deleted),
		"rewritten":                      len(rewritten),
	}).Info("Replaced and renamed files")

	if r.result.RenameCommit, err = r.commit(ctx, changed, MessageRenamed); err != nil {
		return err
	}
	return r.git.Reset(ctx)
}

func (r *run) createPRBranch(ctx context.Context) error {
	return r.git.CreateBranch(ctx, r.cfg.PRBranch, remoteBase(r.cfg.PRBase))
}

func (r *run) filterIgnored(_ context.Context) error {
	matcher := NewIgnoreMatcher(r.cfg.IgnorePaths)

	changed, changeIgnored := matcher.Partition(r.set.Changed)
	deleted, deleteIgnored := matcher.Partition(r.set.Deleted)

	r.set = &ChangeSet{Changed: changed, Deleted: deleted}
	r.result.Changed = changed
	r.result.Deleted = deleted
	r.result.Ignored = append(changeIgnored, deleteIgnored...)

	if len(r.result.Ignored) > 0 {
		r.log.WithField(logging.StandardFields.FileCount, len(r.result.Ignored)).Info("Ignored files")
		r.debugList("Ignored files", r.result.Ignored)
	}
	return nil
}

func (r *run) mergeUpstream(ctx context.Context) error {
	r.log.WithField(logging.StandardFields.FileCount, len(r.set.Changed)).Info("Merging template changes")

	result, err := r.git.Merge(ctx, "refs/heads/"+r.cfg.WorkingBranch())
	if err != nil {
		return err
	}
	r.result.MergeResult = result
	if result == git.MergeConflict {
		r.log.Info("Merge reported conflicts; taking the template version of changed files")
	}

	if err := r.git.Unstage(ctx); err != nil {
		return err
	}

	r.result.ChangeCommit, err = r.commit(ctx, r.set.Changed, MessageChanged)
	return err
}

func (r *run) applyDeletes(ctx context.Context) error {
	removed := make([]string, 0, len(r.set.Deleted))
	for _, f := range r.set.Deleted {
		if _, err := r.fs.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return appErrors.FileReadError(f, err)
		}
		if err := r.fs.Remove(f); err != nil {
			return appErrors.FileRemoveError(f, err)
		}
		removed = append(removed, f)
	}

	r.result.Deleted = removed
	r.log.WithField(logging.StandardFields.FileCount, len(removed)).Info("Deleted files")
	r.debugList("Deleted files", removed)

	var err error
	r.result.DeleteCommit, err = r.commit(ctx, removed, MessageDeleted)
	return err
}

func (r *run) writeCheckpoint(ctx context.Context) error {
	if err := r.checkpoints.Write(r.result.LatestCommit); err != nil {
		return err
	}

	var err error
	r.result.CheckpointCommit, err = r.commit(ctx, []string{r.checkpoints.Path()}, MessageCheckpoint)
	return err
}

func (r *run) push(ctx context.Context) error {
	if err := r.git.Push(ctx, r.options.ForcePush); err != nil {
		return err
	}
	r.result.Pushed = true
	r.log.WithField(logging.StandardFields.BranchName, r.cfg.PRBranch).Info("Pushed sync branch")
	return nil
}

// commit stages exactly files and commits them. An empty list makes no commit.
func (r *run) commit(ctx context.Context, files []string, message string) (git.CommitResult, error) {
	if len(files) == 0 {
		return git.CommitNoChanges, nil
	}

	result, err := r.git.Commit(ctx, files, message)
	if err != nil {
		return result, err
	}

	r.log.WithFields(logrus.Fields{
		"message":                        message,
		logging.StandardFields.FileCount: len(files),
		logging.StandardFields.Status:    result.String(),
	}).Debug("Commit")
	return result, nil
}

func (r *run) debugList(title string, items []string) {
	if len(items) > 0 {
		r.log.WithField("files", items).Debug(title)
	}
}

// remoteBase returns base as an origin remote-tracking ref
func remoteBase(base string) string {
	if strings.HasPrefix(base, "origin/") {
		return base
	}
	return "origin/" + base
}
