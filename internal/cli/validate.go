package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/config"
)

// createValidateCmd creates the validate command
func createValidateCmd(flags *Flags) *cobra.Command {
	sf := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Load the configuration file, environment and flags and check them for
errors without contacting GitHub. Values that would be discovered from the
GitHub API during a sync are reported as such.`,
		Aliases: []string{"check"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := newWriter(cmd)

			cfg, err := loadConfig(ctx, cmd, flags, func(c *config.Config) { sf.apply(cmd, c) })
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out.Infof("Repository:         %s", cfg.Repository)
			out.Infof("Template:           %s", orDiscovered(cfg.Template))
			out.Infof("Template branch:    %s", orDiscovered(cfg.TemplateBranch))
			out.Infof("PR branch:          %s", orDefault(cfg.PRBranch, cfg.PRBranchPrefix+"/<template branch>"))
			out.Infof("PR base:            %s", orDiscovered(cfg.PRBase))
			out.Infof("Template sync file: %s", cfg.TemplateSyncFile)
			if cfg.Rename {
				out.Infof("Rename:             %s -> %s", orDiscovered(cfg.FromName), orDiscovered(cfg.ToName))
			}
			if len(cfg.IgnorePaths) > 0 {
				out.Infof("Ignore paths:       %s", strings.Join(cfg.IgnorePaths, ", "))
			}
			if len(cfg.PRLabels) > 0 {
				out.Infof("PR labels:          %s", strings.Join(cfg.PRLabels, ", "))
			}

			if cfg.Token == "" {
				out.Warnf("No GitHub token found; sync needs one of %s", strings.Join(config.TokenEnvKeys, ", "))
			}

			out.Success("Configuration is valid")
			return nil
		},
	}

	addSyncFlags(cmd, sf)
	return cmd
}

func orDiscovered(value string) string {
	return orDefault(value, "(from GitHub)")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
