// Package config provides configuration loading, defaults and validation for go-template-sync.
package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultConfigPath is read when --config is not given. A missing file is not an error.
	DefaultConfigPath = ".github/template-sync.yml"

	// DefaultTemplateSyncFile stores the last synchronized template commit
	DefaultTemplateSyncFile = ".templatesync"

	// DefaultPRBranchPrefix prefixes the generated pull request branch
	DefaultPRBranchPrefix = "template-sync"

	// TemplateRemote is the git remote the template is fetched into
	TemplateRemote = "template"
)

// Default returns a configuration with static defaults applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets values that do not depend on the GitHub API
func applyDefaults(cfg *Config) {
	if cfg.TemplateSyncFile == "" {
		cfg.TemplateSyncFile = DefaultTemplateSyncFile
	}
	if cfg.PRBranchPrefix == "" {
		cfg.PRBranchPrefix = DefaultPRBranchPrefix
	}
}

// applyDerivedDefaults sets values that depend on the resolved template branch
func applyDerivedDefaults(cfg *Config) {
	applyDefaults(cfg)

	if cfg.PRBranch == "" {
		cfg.PRBranch = strings.TrimSuffix(cfg.PRBranchPrefix, "/") + "/" + cfg.TemplateBranch
	}
	if cfg.PRTitle == "" {
		cfg.PRTitle = DefaultPRTitle(cfg.TemplateBranch)
	}
	if cfg.PRBody == "" {
		cfg.PRBody = DefaultPRBody(cfg)
	}
}

// DefaultPRTitle returns the pull request title used when none is configured
func DefaultPRTitle(templateBranch string) string {
	return "Sync from template@" + templateBranch
}

// DefaultPRBody returns the generated pull request description
func DefaultPRBody(cfg *Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "This pull request syncs changes from [%s@%s](https://github.com/%s/tree/%s).\n",
		cfg.Template, cfg.TemplateBranch, cfg.Template, cfg.TemplateBranch)

	if cfg.Rename {
		fmt.Fprintf(&b, "\nIdentifiers were renamed from `%s` to `%s`.\n", cfg.FromName, cfg.ToName)
	}
	if len(cfg.IgnorePaths) > 0 {
		b.WriteString("\nIgnored paths:\n")
		for _, p := range cfg.IgnorePaths {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	fmt.Fprintf(&b, "\nThe synchronized commit is recorded in `%s`.\n", cfg.TemplateSyncFile)

	return b.String()
}
