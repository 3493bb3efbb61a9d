// Package logging provides logging configuration types and utilities.
package logging

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/jsonutil"
)

// StructuredFormatter provides JSON output formatting for structured logging.
//
// Field names follow the StandardFields schema so sync runs can be
// correlated in log aggregation systems.
type StructuredFormatter struct {
	// DisableTimestamp disables automatic timestamp generation
	DisableTimestamp bool
	// TimestampFormat sets the format for the timestamp field
	TimestampFormat string
}

// NewStructuredFormatter creates a new StructuredFormatter using RFC3339 timestamps.
func NewStructuredFormatter() *StructuredFormatter {
	return &StructuredFormatter{
		TimestampFormat: time.RFC3339,
	}
}

// Format formats a logrus.Entry as a single JSON line.
func (f *StructuredFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(logrus.Fields, len(entry.Data)+3)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if !f.DisableTimestamp {
		timestampFormat := f.TimestampFormat
		if timestampFormat == "" {
			timestampFormat = time.RFC3339
		}
		data[StandardFields.Timestamp] = entry.Time.Format(timestampFormat)
	}

	jsonBytes, err := jsonutil.MarshalJSON(data)
	if err != nil {
		return nil, err
	}

	return append(jsonBytes, '\n'), nil
}

// ResolveLevel maps the verbosity counter and explicit level onto a logrus level.
// Verbose flags win over LogLevel.
func ResolveLevel(config *LogConfig) (logrus.Level, error) {
	if config == nil {
		return logrus.InfoLevel, nil
	}

	switch {
	case config.Verbose == 1:
		return logrus.DebugLevel, nil
	case config.Verbose >= 2:
		return logrus.TraceLevel, nil
	case config.LogLevel != "":
		level, err := logrus.ParseLevel(config.LogLevel)
		if err != nil {
			return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
		}
		return level, nil
	default:
		return logrus.InfoLevel, nil
	}
}

// ConfigureLogger configures a logrus.Logger instance based on LogConfig settings.
//
// It sets the level, installs the redaction hook and picks the JSON or
// text formatter.
func ConfigureLogger(logger *logrus.Logger, config *LogConfig) error {
	if config == nil {
		return nil
	}

	level, err := ResolveLevel(config)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	logger.AddHook(NewRedactionService().CreateHook())

	if config.JSONOutput || config.LogFormat == "json" {
		logger.SetFormatter(NewStructuredFormatter())
		return nil
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		PadLevelText:    true,
	})
	return nil
}

// WithStandardFields creates a logrus.Entry with correlation ID and component info.
func WithStandardFields(logger *logrus.Logger, config *LogConfig, component string) *logrus.Entry {
	fields := logrus.Fields{
		StandardFields.Component: component,
	}

	if config != nil && config.CorrelationID != "" {
		fields[StandardFields.CorrelationID] = config.CorrelationID
	}

	return logger.WithFields(fields)
}
