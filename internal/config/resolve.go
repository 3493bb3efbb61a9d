package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-template-sync/internal/errors"
	"github.com/mrz1836/go-template-sync/internal/gh"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// RepositoryLookup fetches repository metadata
type RepositoryLookup interface {
	GetRepository(ctx context.Context, repo string) (*gh.Repository, error)
}

// Resolve fills fields that default to values from the GitHub API: the
// template, both names, both default branches and the repository creation
// time. Explicitly configured values are kept.
func (c *Config) Resolve(ctx context.Context, lookup RepositoryLookup, logConfig *logging.LogConfig) error {
	logger := logging.WithStandardFields(logrus.StandardLogger(), logConfig, logging.ComponentNames.Config).
		WithField(logging.StandardFields.Operation, logging.OperationTypes.ConfigResolve)
	start := time.Now()

	if c.Repository == "" {
		return fmt.Errorf("%w: %w", appErrors.ErrInvalidConfig, appErrors.RequiredFieldError("repository"))
	}

	repo, err := lookup.GetRepository(ctx, c.Repository)
	if err != nil {
		return appErrors.WrapWithContext(err, "get repository "+c.Repository)
	}

	c.RepositoryCreatedAt = repo.CreatedAt
	if c.ToName == "" {
		c.ToName = repo.Name
		logger.WithField(logging.StandardFields.ToName, c.ToName).Info("Using repository name as to-name")
	}
	if c.PRBase == "" {
		c.PRBase = repo.DefaultBranch
	}

	if c.Template == "" {
		if repo.TemplateRepository == nil || repo.TemplateRepository.FullName == "" {
			return fmt.Errorf("%w: %s", ErrNoTemplate, c.Repository)
		}
		c.Template = repo.TemplateRepository.FullName
	}

	template := repo.TemplateRepository
	if template == nil || !strings.EqualFold(template.FullName, c.Template) {
		template = nil
	}

	if c.TemplateBranch == "" && (template == nil || template.DefaultBranch == "") {
		if template, err = lookup.GetRepository(ctx, c.Template); err != nil {
			return appErrors.WrapWithContext(err, "get template repository "+c.Template)
		}
	}

	if c.FromName == "" {
		c.FromName = templateName(c.Template, template)
		logger.WithField(logging.StandardFields.FromName, c.FromName).Info("Using template name as from-name")
	}
	if c.TemplateBranch == "" {
		c.TemplateBranch = template.DefaultBranch
	}

	applyDerivedDefaults(c)

	logger.WithFields(logrus.Fields{
		logging.StandardFields.TemplateRepo: c.Template,
		logging.StandardFields.BranchName:   c.PRBranch,
		logging.StandardFields.BaseBranch:   c.PRBase,
		logging.StandardFields.DurationMs:   time.Since(start).Milliseconds(),
	}).Debug("Configuration resolved")

	return nil
}

func templateName(fullName string, template *gh.Repository) string {
	if template != nil && template.Name != "" {
		return template.Name
	}
	_, name, _ := strings.Cut(fullName, "/")
	return name
}
