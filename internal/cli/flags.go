package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/config"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// Flags contains all global flags for the CLI
type Flags struct {
	ConfigFile string
	DryRun     bool
	LogLevel   string
	LogFormat  string
	Verbose    int
	NoColor    bool
	Debug      logging.DebugFlags
}

// newFlags returns flags with their default values
func newFlags() *Flags {
	return &Flags{
		ConfigFile: config.DefaultConfigPath,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// LogConfig converts the flags into the logging configuration passed to every component
func (f *Flags) LogConfig() *logging.LogConfig {
	return &logging.LogConfig{
		ConfigFile: f.ConfigFile,
		DryRun:     f.DryRun,
		LogLevel:   f.LogLevel,
		Verbose:    f.Verbose,
		Debug:      f.Debug,
		LogFormat:  f.LogFormat,
		JSONOutput: f.LogFormat == "json",
	}
}

// addGlobalFlags registers the persistent flags shared by every command
func addGlobalFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", config.DefaultConfigPath, "Path to configuration file (optional unless given explicitly)")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview changes without pushing or touching pull requests")
	pf.StringVar(&flags.LogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.LogFormat, "log-format", "text", "Log format (text, json)")
	pf.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.Debug.Git, "debug-git", false, "Log every git command with its output")
	pf.BoolVar(&flags.Debug.API, "debug-api", false, "Log GitHub API requests and responses")
	pf.BoolVar(&flags.Debug.Transform, "debug-transform", false, "Log content rewrites with diffs")
	pf.BoolVar(&flags.Debug.Config, "debug-config", false, "Log configuration loading and validation")
}

// syncFlags holds the per-run overrides accepted by sync and plan.
// Only flags the user actually set replace configured values.
type syncFlags struct {
	template         string
	templateBranch   string
	fromName         string
	toName           string
	rename           bool
	ignorePaths      []string
	prBranch         string
	prBase           string
	prTitle          string
	prLabels         []string
	templateSyncFile string
	repoPath         string
	timeout          time.Duration
}

// addSyncFlags registers the configuration override flags on cmd
func addSyncFlags(cmd *cobra.Command, sf *syncFlags) {
	f := cmd.Flags()
	f.StringVar(&sf.template, "template", "", "Template repository (owner/repo)")
	f.StringVar(&sf.templateBranch, "template-branch", "", "Template branch to sync from")
	f.StringVar(&sf.fromName, "from-name", "", "Identifier to rename from")
	f.StringVar(&sf.toName, "to-name", "", "Identifier to rename to")
	f.BoolVar(&sf.rename, "rename", false, "Rename identifiers in paths and file contents")
	f.StringArrayVar(&sf.ignorePaths, "ignore-path", nil, "Glob of template paths to skip (repeatable)")
	f.StringVar(&sf.prBranch, "pr-branch", "", "Pull request branch")
	f.StringVar(&sf.prBase, "pr-base", "", "Pull request base branch")
	f.StringVar(&sf.prTitle, "pr-title", "", "Pull request title")
	f.StringArrayVar(&sf.prLabels, "pr-label", nil, "Label to add to the pull request (repeatable)")
	f.StringVar(&sf.templateSyncFile, "template-sync-file", "", "File that records the last synchronized template commit")
	f.StringVar(&sf.repoPath, "path", ".", "Path to the working copy")
	f.DurationVar(&sf.timeout, "timeout", 0, "Abort the run after this duration (0 disables)")
}

// apply copies every flag that was set on cmd into cfg
func (sf *syncFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	strs := []struct {
		name  string
		value string
		dst   *string
	}{
		{"template", sf.template, &cfg.Template},
		{"template-branch", sf.templateBranch, &cfg.TemplateBranch},
		{"from-name", sf.fromName, &cfg.FromName},
		{"to-name", sf.toName, &cfg.ToName},
		{"pr-branch", sf.prBranch, &cfg.PRBranch},
		{"pr-base", sf.prBase, &cfg.PRBase},
		{"pr-title", sf.prTitle, &cfg.PRTitle},
		{"template-sync-file", sf.templateSyncFile, &cfg.TemplateSyncFile},
	}
	for _, s := range strs {
		if changed(s.name) {
			*s.dst = s.value
		}
	}

	if changed("rename") {
		cfg.Rename = sf.rename
	}
	if changed("ignore-path") {
		cfg.IgnorePaths = append([]string(nil), sf.ignorePaths...)
	}
	if changed("pr-label") {
		cfg.PRLabels = append([]string(nil), sf.prLabels...)
	}
}
