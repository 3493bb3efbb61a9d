package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/config"
	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/git"
	"github.com/mrz1836/go-template-sync/internal/logging"
	"github.com/mrz1836/go-template-sync/internal/output"
	"github.com/mrz1836/go-template-sync/internal/sync"
)

// createSyncCmd creates the sync command
func createSyncCmd(flags *Flags, deps *Dependencies) *cobra.Command {
	sf := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the repository with its template",
		Long: `Fetch the template repository, bring over every file changed since the
last synchronized commit onto a pull request branch and open or update a
pull request against the base branch.

Identifiers derived from the template name are renamed in paths and file
contents when --rename is set. The synchronized commit is recorded in the
template sync file so the next run only picks up newer changes.`,
		Example: `  # Sync using .github/template-sync.yml and environment variables
  go-template-sync sync

  # Rename identifiers from the template name to the repository name
  go-template-sync sync --rename

  # Preview without pushing or opening a pull request
  go-template-sync sync --dry-run -v

  # Skip template paths
  go-template-sync sync --ignore-path ".github/workflows/**" --ignore-path "docs/*.md"`,
		Aliases: []string{"s"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags, sf, deps)
		},
	}

	addSyncFlags(cmd, sf)
	return cmd
}

// session is a loaded and resolved configuration with its collaborators
type session struct {
	cfg          *config.Config
	orchestrator *sync.Orchestrator
}

// prepareSession loads, resolves and validates the configuration and wires
// the orchestrator. Nothing in the working copy is touched.
func prepareSession(ctx context.Context, cmd *cobra.Command, flags *Flags, sf *syncFlags, deps *Dependencies) (*session, error) {
	logger := loggerFromContext(ctx)
	logConfig := logConfigFromContext(ctx)

	cfg, err := loadConfig(ctx, cmd, flags, func(c *config.Config) { sf.apply(cmd, c) })
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: set one of %v", config.ErrNoToken, config.TokenEnvKeys)
	}

	ghClient, err := deps.NewGHClient(ctx, cfg.Token, logger, logConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	if err = cfg.Resolve(ctx, ghClient, logConfig); err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}
	if err = cfg.ValidateForSync(ctx, logConfig); err != nil {
		return nil, err
	}

	gitClient, err := deps.NewGitClient(ctx, sf.repoPath, logger, logConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize git client: %w", err)
	}

	opts := sync.DefaultOptions().
		WithDryRun(cfg.DryRun).
		WithTimeout(sf.timeout)

	return &session{
		cfg:          cfg,
		orchestrator: sync.NewOrchestrator(cfg, gitClient, ghClient, deps.NewFilesystem(sf.repoPath), opts, logger, logConfig),
	}, nil
}

// runSync executes a full sync and reports the outcome
func runSync(cmd *cobra.Command, flags *Flags, sf *syncFlags, deps *Dependencies) error {
	ctx := cmd.Context()
	out := newWriter(cmd)
	log := logging.WithStandardFields(loggerFromContext(ctx), logConfigFromContext(ctx), logging.ComponentNames.CLI).
		WithField("command", "sync")

	s, err := prepareSession(ctx, cmd, flags, sf, deps)
	if err != nil {
		return err
	}

	if s.cfg.DryRun {
		out.Warn("DRY-RUN MODE: nothing will be pushed and no pull request will be opened")
	}
	out.Infof("Syncing %s from %s@%s", s.cfg.Repository, s.cfg.Template, s.cfg.TemplateBranch)

	result, err := s.orchestrator.Run(ctx)
	if err != nil {
		if step, ok := appErrors.FailedStep(err); ok {
			log.WithField(logging.StandardFields.Step, step).Debug("Sync stopped")
			out.Errorf("Sync stopped while trying to %s", step)
		}
		if errors.Is(err, context.DeadlineExceeded) && sf.timeout > 0 {
			out.Warnf("Run exceeded --timeout %s", sf.timeout)
		}
		return fmt.Errorf("%w: %w", appErrors.ErrSyncFailed, err)
	}

	printResult(out, s.cfg, result)
	return nil
}

// printResult summarizes a run for the user
func printResult(out output.Writer, cfg *config.Config, result *sync.Result) {
	out.List("Changed files", result.Changed)
	out.List("Deleted files", result.Deleted)
	out.List("Ignored files", result.Ignored)
	out.List("Rewritten files", result.Rewritten)

	if result.MergeResult == git.MergeConflict {
		out.Warn("Merge reported conflicts; review the pull request for conflict markers")
	}

	switch {
	case result.DryRun:
		out.Successf("Dry run complete for %s (%s)", cfg.PRBranch, result.Duration.Round(time.Millisecond))
	case result.PRCreated:
		out.Successf("Created pull request #%d from %s", result.PRNumber, cfg.PRBranch)
	case result.PRUpdated:
		out.Successf("Updated pull request #%d from %s", result.PRNumber, cfg.PRBranch)
	default:
		out.Successf("Branch %s is up to date with %s; no pull request needed", cfg.PRBranch, cfg.PRBase)
	}

	if result.PRURL != "" {
		out.Plain(result.PRURL)
	}
}
