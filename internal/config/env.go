package config

import (
	"os"
	"strconv"
	"strings"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/env"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TEMPLATE_SYNC_"

// TokenEnvKeys are checked in order for the GitHub token
//
//nolint:gochecknoglobals // read-only lookup order
var TokenEnvKeys = []string{EnvPrefix + "TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// ApplyEnv overlays TEMPLATE_SYNC_* variables onto cfg. Variables that are
// unset leave the field untouched; set-but-empty clears string fields.
func ApplyEnv(cfg *Config) error {
	strs := []struct {
		key   string
		field *string
	}{
		{"TEMPLATE", &cfg.Template},
		{"TEMPLATE_BRANCH", &cfg.TemplateBranch},
		{"REPOSITORY", &cfg.Repository},
		{"FROM_NAME", &cfg.FromName},
		{"TO_NAME", &cfg.ToName},
		{"PR_BRANCH_PREFIX", &cfg.PRBranchPrefix},
		{"PR_BRANCH", &cfg.PRBranch},
		{"PR_BASE", &cfg.PRBase},
		{"PR_TITLE", &cfg.PRTitle},
		{"PR_BODY", &cfg.PRBody},
		{"FILE", &cfg.TemplateSyncFile},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + s.key); ok {
			*s.field = strings.TrimSpace(v)
		}
	}

	if cfg.Repository == "" {
		cfg.Repository = strings.TrimSpace(env.GetEnvWithFallback("GITHUB_REPOSITORY", ""))
	}

	bools := []struct {
		key   string
		field *bool
	}{
		{"RENAME", &cfg.Rename},
		{"DRY_RUN", &cfg.DryRun},
	}
	for _, b := range bools {
		v, ok := os.LookupEnv(EnvPrefix + b.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return appErrors.InvalidFieldError(EnvPrefix+b.key, v)
		}
		*b.field = parsed
	}

	if v, ok := os.LookupEnv(EnvPrefix + "IGNORE_PATHS"); ok {
		cfg.IgnorePaths = SplitList(v)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "PR_LABELS"); ok {
		cfg.PRLabels = SplitList(v)
	}

	if token := env.FirstNonEmpty(TokenEnvKeys...); token != "" {
		cfg.Token = token
	}

	return nil
}

// SplitList splits a newline or comma separated value, dropping blanks
func SplitList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == '\n' || r == ','
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
