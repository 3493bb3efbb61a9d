package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createPlanCmd creates the plan command
func createPlanCmd(flags *Flags, deps *Dependencies) *cobra.Command {
	sf := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a sync would bring over",
		Long: `Fetch the template and list the files a sync would change, delete and
ignore. Nothing is renamed, committed or pushed and no pull request is
touched. The template working branch is left checked out.`,
		Example: `  # Preview the next sync
  go-template-sync plan

  # Preview with extra ignore globs
  go-template-sync plan --ignore-path "*.md"`,
		Aliases: []string{"p", "preview"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := newWriter(cmd)

			s, err := prepareSession(ctx, cmd, flags, sf, deps)
			if err != nil {
				return err
			}

			result, err := s.orchestrator.Plan(ctx)
			if err != nil {
				return fmt.Errorf("plan failed: %w", err)
			}

			if result.FirstSync {
				out.Infof("First sync from %s@%s", s.cfg.Template, s.cfg.TemplateBranch)
			} else {
				out.Infof("Changes in %s@%s since %s", s.cfg.Template, s.cfg.TemplateBranch, shortCommit(result.LastSyncCommit))
			}

			out.List("Changed files", result.Changed)
			out.List("Deleted files", result.Deleted)
			out.List("Ignored files", result.Ignored)

			if len(result.Changed) == 0 && len(result.Deleted) == 0 {
				out.Success("Nothing to sync")
				return nil
			}

			out.Successf("%d changed, %d deleted, %d ignored", len(result.Changed), len(result.Deleted), len(result.Ignored))
			return nil
		},
	}

	addSyncFlags(cmd, sf)
	return cmd
}

// shortCommit abbreviates a commit id for display
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
