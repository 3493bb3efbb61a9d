package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-template-sync/internal/logging"
	"github.com/mrz1836/go-template-sync/internal/output"
)

// loggerContextKey is a type for context keys to avoid collisions
type loggerContextKey struct{}

// logConfigContextKey stores the run's LogConfig in the command context
type logConfigContextKey struct{}

// newLogger creates an isolated logger configured from flags. The package
// level logrus logger gets the same level, formatter and output so packages
// that log through it stay consistent with the command.
func newLogger(out io.Writer, logConfig *logging.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	if err := logging.ConfigureLogger(logger, logConfig); err != nil {
		return nil, err
	}

	std := logrus.StandardLogger()
	std.SetOutput(out)
	std.SetLevel(logger.GetLevel())
	std.SetFormatter(logger.Formatter)

	return logger, nil
}

// createSetupLogging creates the PersistentPreRunE that stores a configured
// logger and LogConfig in the command context
func createSetupLogging(flags *Flags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if flags.NoColor {
			output.SetNoColor(true)
		}

		logConfig := flags.LogConfig().WithCorrelationID(logging.GenerateCorrelationID())

		// Log to stderr to keep stdout clean for output
		logger, err := newLogger(cmd.ErrOrStderr(), logConfig)
		if err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = context.WithValue(ctx, loggerContextKey{}, logger)
		ctx = context.WithValue(ctx, logConfigContextKey{}, logConfig)
		cmd.SetContext(ctx)

		logging.WithStandardFields(logger, logConfig, logging.ComponentNames.CLI).WithFields(logrus.Fields{
			"command":                      cmd.Name(),
			"config":                       flags.ConfigFile,
			logging.StandardFields.DryRun: flags.DryRun,
			"log_level":                    logger.GetLevel().String(),
		}).Debug("CLI initialized")

		return nil
	}
}

// loggerFromContext returns the command logger, falling back to the global logger
func loggerFromContext(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*logrus.Logger); ok {
		return logger
	}
	return logrus.StandardLogger()
}

// logConfigFromContext returns the run's LogConfig, or an empty one
func logConfigFromContext(ctx context.Context) *logging.LogConfig {
	if logConfig, ok := ctx.Value(logConfigContextKey{}).(*logging.LogConfig); ok {
		return logConfig
	}
	return &logging.LogConfig{}
}

// newWriter returns an output writer bound to the command's streams
func newWriter(cmd *cobra.Command) output.Writer {
	return output.NewColoredWriter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}
