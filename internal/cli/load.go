package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/config"
	"github.com/mrz1836/go-template-sync/internal/env"
	"github.com/mrz1836/go-template-sync/internal/logging"
)

// loadConfig builds the configuration in precedence order: defaults, the
// YAML file, environment variables (after .env loading), then flags. The
// file is only required when --config was given explicitly. apply may be nil.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *Flags, apply func(*config.Config)) (*config.Config, error) {
	logger := loggerFromContext(ctx)
	logConfig := logConfigFromContext(ctx)
	log := logging.WithStandardFields(logger, logConfig, logging.ComponentNames.Config)

	if err := env.LoadEnvFiles(); err != nil {
		// Environment files are optional; a broken one should not block a run
		log.WithError(err).Warn("Failed to load environment files")
	}

	required := cmd.Flags().Changed("config")
	cfg, err := config.LoadOptional(flags.ConfigFile, required)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if apply != nil {
		apply(cfg)
	}
	if flags.DryRun {
		cfg.DryRun = true
	}

	if logConfig.Debug.Config {
		log.WithFields(logrus.Fields{
			"config_file":                      flags.ConfigFile,
			"config_required":                  required,
			logging.StandardFields.Repository:   cfg.Repository,
			logging.StandardFields.TemplateRepo: cfg.Template,
			"has_token":                        cfg.Token != "",
		}).Debug("Configuration loaded")
	}

	if err := cfg.ValidateWithLogging(ctx, logConfig); err != nil {
		return nil, err
	}

	return cfg, nil
}
