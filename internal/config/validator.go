package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/logging"
	"github.com/mrz1836/go-template-sync/internal/validation"
)

var (
	// ErrNoToken indicates no GitHub token was found in the environment
	ErrNoToken = errors.New("no GitHub token provided")
	// ErrNoTemplate indicates the template repository could not be determined
	ErrNoTemplate = errors.New("no template repository configured or discoverable")
	// ErrBranchConflict indicates the PR branch collides with the template working branch
	ErrBranchConflict = errors.New("pr branch collides with template working branch")
)

// Validate checks the configuration without contacting GitHub
func (c *Config) Validate() error {
	return c.ValidateWithLogging(context.Background(), nil)
}

// ValidateWithLogging checks the configuration with debug logging support.
//
// Every problem is collected so the user sees them all at once.
func (c *Config) ValidateWithLogging(ctx context.Context, logConfig *logging.LogConfig) error {
	logger := logging.WithStandardFields(logrus.StandardLogger(), logConfig, logging.ComponentNames.Config)
	debug := logConfig != nil && logConfig.Debug.Config
	start := time.Now()

	if debug {
		logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation:  logging.OperationTypes.ConfigValidate,
			logging.StandardFields.Repository: c.Repository,
			"ignore_count":                    len(c.IgnorePaths),
		}).Debug("Starting configuration validation")
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("validation canceled: %w", ctx.Err())
	default:
	}

	result := validation.NewValidationResult()

	if c.Repository == "" {
		result.AddError(appErrors.RequiredFieldError("repository"))
	} else {
		result.AddWrapped("repository", validation.ValidateRepoName(c.Repository))
	}

	if c.Template != "" {
		result.AddWrapped("template", validation.ValidateRepoName(c.Template))
	}

	branches := []struct{ field, value string }{
		{"template_branch", c.TemplateBranch},
		{"pr_branch_prefix", c.PRBranchPrefix},
		{"pr_branch", c.PRBranch},
		{"pr_base", c.PRBase},
	}
	for _, b := range branches {
		if b.value != "" {
			result.AddWrapped(b.field, validation.ValidateBranchName(b.value))
		}
	}

	if c.FromName != "" {
		result.AddError(validation.ValidateProjectName("from_name", c.FromName))
	}
	if c.ToName != "" {
		result.AddError(validation.ValidateProjectName("to_name", c.ToName))
	}

	result.AddWrapped("template_sync_file", validation.ValidateFilePath(c.TemplateSyncFile, "template sync file"))

	for _, pattern := range c.IgnorePaths {
		result.AddWrapped("ignore_paths", validation.ValidateGlob(pattern))
	}
	for _, label := range c.PRLabels {
		result.AddWrapped("pr_labels", validation.ValidateNonEmpty("label", label))
	}

	if c.PRBranch != "" && c.TemplateBranch != "" && c.PRBranch == c.WorkingBranch() {
		result.AddError(fmt.Errorf("%w: %s", ErrBranchConflict, c.PRBranch))
	}

	if err := result.AllErrors(); err != nil {
		if debug {
			logger.WithFields(logrus.Fields{
				logging.StandardFields.Error:      err.Error(),
				logging.StandardFields.DurationMs: time.Since(start).Milliseconds(),
			}).Error("Configuration validation failed")
		}
		return fmt.Errorf("%w: %w", appErrors.ErrInvalidConfig, err)
	}

	if debug {
		logger.WithField(logging.StandardFields.DurationMs, time.Since(start).Milliseconds()).
			Debug("Configuration validation completed")
	}

	return nil
}

// ValidateForSync checks everything a sync run needs after Resolve
func (c *Config) ValidateForSync(ctx context.Context, logConfig *logging.LogConfig) error {
	if c.Token == "" {
		return ErrNoToken
	}
	if c.Template == "" {
		return ErrNoTemplate
	}
	if err := c.ValidateWithLogging(ctx, logConfig); err != nil {
		return err
	}

	result := validation.NewValidationResult()
	result.AddError(validation.ValidateNonEmpty("template_branch", c.TemplateBranch))
	result.AddError(validation.ValidateNonEmpty("pr_branch", c.PRBranch))
	result.AddError(validation.ValidateNonEmpty("pr_base", c.PRBase))
	if c.Rename {
		result.AddError(validation.ValidateNonEmpty("from_name", c.FromName))
		result.AddError(validation.ValidateNonEmpty("to_name", c.ToName))
	}
	if err := result.AllErrors(); err != nil {
		return fmt.Errorf("%w: %w", appErrors.ErrInvalidConfig, err)
	}

	return nil
}
