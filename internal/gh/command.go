package gh

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-template-sync/internal/logging"
)

// CommandRunner interface for executing system commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	RunWithInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error)
}

// realCommandRunner executes actual system commands
type realCommandRunner struct {
	logger    *logrus.Logger
	logConfig *logging.LogConfig
	token     string
}

// NewCommandRunner creates a command runner. A non-empty token is exposed
// to child processes as GH_TOKEN; the parent environment is not modified.
func NewCommandRunner(logger *logrus.Logger, logConfig *logging.LogConfig, token string) CommandRunner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &realCommandRunner{
		logger:    logger,
		logConfig: logConfig,
		token:     token,
	}
}

// Run executes a command and returns its output
func (r *realCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.RunWithInput(ctx, nil, name, args...)
}

// RunWithInput executes a command with input and returns its output.
//
// With --debug-api the request arguments, input, timing and small response
// bodies are logged.
func (r *realCommandRunner) RunWithInput(ctx context.Context, input []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	if r.token != "" {
		cmd.Env = append(cmd.Env, "GH_TOKEN="+r.token)
	}

	logger := logging.WithStandardFields(r.logger, r.logConfig, logging.ComponentNames.API)
	debug := r.logConfig != nil && r.logConfig.Debug.API

	if debug {
		logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation: logging.OperationTypes.APIRequest,
			"args":                           args,
		}).Debug("GitHub CLI request")
		if input != nil {
			logger.WithFields(logrus.Fields{
				logging.StandardFields.ContentSize: len(input),
				"input":                            string(input),
			}).Trace("Request input")
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if debug {
		logger.WithFields(logrus.Fields{
			logging.StandardFields.DurationMs:  duration.Milliseconds(),
			logging.StandardFields.ContentSize: stdout.Len(),
			logging.StandardFields.Status:      "response_received",
		}).Debug("GitHub CLI response")
		if err == nil && stdout.Len() > 0 && stdout.Len() < 1024 {
			logger.WithField("response", stdout.String()).Trace("Response body")
		}
	}

	if err != nil {
		logger.WithFields(logrus.Fields{
			"command":                         name,
			"args":                            args,
			"stderr":                          stderr.String(),
			logging.StandardFields.DurationMs: duration.Milliseconds(),
			logging.StandardFields.Status:     "failed",
		}).Debug("GitHub CLI command failed")

		return nil, &CommandError{
			Command: name,
			Args:    args,
			Stderr:  stderr.String(),
			Stdout:  stdout.String(),
			Err:     err,
		}
	}

	return stdout.Bytes(), nil
}

// CommandError provides detailed error information from command execution
type CommandError struct {
	Command string
	Args    []string
	Stderr  string
	Stdout  string
	Err     error
}

// Error returns stderr (gh api prints the HTTP status there), falling back
// to stdout and then the process error.
func (e *CommandError) Error() string {
	switch {
	case e.Stderr != "":
		return e.Stderr
	case e.Stdout != "":
		return e.Stdout
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Command + " failed"
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
