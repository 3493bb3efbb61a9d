// Package cli implements the command-line interface for go-template-sync.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/output"
)

// NewRootCmd creates a new isolated root command instance
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDependencies(DefaultDependencies())
}

// NewRootCmdWithDependencies creates a root command whose commands use deps.
// Panics if deps is nil to fail fast during initialization.
func NewRootCmdWithDependencies(deps *Dependencies) *cobra.Command {
	if deps == nil {
		panic("deps must not be nil")
	}

	flags := newFlags()

	cmd := &cobra.Command{
		Use:   "go-template-sync",
		Short: "Keep a repository in sync with the template it was created from",
		Long: `go-template-sync brings changes made to a template repository into a
repository created from it.

It diffs the template since the last synchronized commit, optionally renames
identifiers derived from the template name, merges the result onto a pull
request branch, records the synchronized commit and opens or updates a pull
request. Configuration comes from .github/template-sync.yml, TEMPLATE_SYNC_*
environment variables and flags, in increasing order of precedence.`,
		PersistentPreRunE: createSetupLogging(flags),
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	addGlobalFlags(cmd, flags)

	cmd.AddCommand(createSyncCmd(flags, deps))
	cmd.AddCommand(createPlanCmd(flags, deps))
	cmd.AddCommand(createConvertCmd(flags))
	cmd.AddCommand(createValidateCmd(flags))
	cmd.AddCommand(createVersionCmd(flags))

	return cmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := ExecuteWithContext(context.Background()); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}

// ExecuteWithContext runs the root command. SIGINT and SIGTERM cancel ctx so
// in-flight git and gh commands stop and credentials are restored.
func ExecuteWithContext(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			output.Warn("Interrupt received, canceling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return NewRootCmd().ExecuteContext(ctx)
}
