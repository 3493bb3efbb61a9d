// Package output provides colored output functions for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Writer defines the interface for user-facing output.
type Writer interface {
	Success(msg string)
	Successf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	Plain(msg string)
	Plainf(format string, args ...interface{})
	List(title string, items []string)
}

// ColoredWriter implements Writer with colored output
type ColoredWriter struct {
	successColor *color.Color
	infoColor    *color.Color
	warnColor    *color.Color
	errorColor   *color.Color
	stdout       io.Writer
	stderr       io.Writer
	mu           sync.Mutex
}

// NewColoredWriter creates a new ColoredWriter instance
func NewColoredWriter(stdout, stderr io.Writer) *ColoredWriter {
	return &ColoredWriter{
		successColor: color.New(color.FgGreen, color.Bold),
		infoColor:    color.New(color.FgCyan),
		warnColor:    color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed, color.Bold),
		stdout:       stdout,
		stderr:       stderr,
	}
}

func (w *ColoredWriter) println(out io.Writer, c *color.Color, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c == nil {
		_, _ = fmt.Fprintln(out, msg)
		return
	}
	_, _ = c.Fprintln(out, msg)
}

// Success prints a success message in green
func (w *ColoredWriter) Success(msg string) { w.println(w.stdout, w.successColor, msg) }

// Successf prints a formatted success message
func (w *ColoredWriter) Successf(format string, args ...interface{}) {
	w.Success(fmt.Sprintf(format, args...))
}

// Info prints an info message in cyan
func (w *ColoredWriter) Info(msg string) { w.println(w.stdout, w.infoColor, msg) }

// Infof prints a formatted info message
func (w *ColoredWriter) Infof(format string, args ...interface{}) {
	w.Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message in yellow to stderr
func (w *ColoredWriter) Warn(msg string) { w.println(w.stderr, w.warnColor, msg) }

// Warnf prints a formatted warning message
func (w *ColoredWriter) Warnf(format string, args ...interface{}) {
	w.Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message in red to stderr
func (w *ColoredWriter) Error(msg string) { w.println(w.stderr, w.errorColor, msg) }

// Errorf prints a formatted error message
func (w *ColoredWriter) Errorf(format string, args ...interface{}) {
	w.Error(fmt.Sprintf(format, args...))
}

// Plain prints a message without color
func (w *ColoredWriter) Plain(msg string) { w.println(w.stdout, nil, msg) }

// Plainf prints a formatted message without color
func (w *ColoredWriter) Plainf(format string, args ...interface{}) {
	w.Plain(fmt.Sprintf(format, args...))
}

// List prints a cyan title with a count followed by one indented line per item.
// Nothing is printed for an empty list.
func (w *ColoredWriter) List(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.Infof("%s (%d):", title, len(items))
	for _, item := range items {
		w.Plain("  " + item)
	}
}

//nolint:gochecknoglobals // Output package requires package-level state for consistent formatting
var (
	defaultMu     sync.Mutex
	defaultWriter = NewColoredWriter(os.Stdout, os.Stderr)
)

// Default returns the package-level writer.
func Default() Writer {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultWriter
}

// SetOutputs replaces the package-level stdout/stderr (useful for testing).
func SetOutputs(stdout, stderr io.Writer) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultWriter = NewColoredWriter(stdout, stderr)
}

// SetNoColor disables or enables color output globally.
func SetNoColor(noColor bool) {
	color.NoColor = noColor
}

// Success prints a success message in green
func Success(msg string) { Default().Success(msg) }

// Successf prints a formatted success message
func Successf(format string, args ...interface{}) { Default().Successf(format, args...) }

// Info prints an info message in cyan
func Info(msg string) { Default().Info(msg) }

// Infof prints a formatted info message
func Infof(format string, args ...interface{}) { Default().Infof(format, args...) }

// Warn prints a warning message in yellow
func Warn(msg string) { Default().Warn(msg) }

// Warnf prints a formatted warning message
func Warnf(format string, args ...interface{}) { Default().Warnf(format, args...) }

// Error prints an error message in red
func Error(msg string) { Default().Error(msg) }

// Errorf prints a formatted error message
func Errorf(format string, args ...interface{}) { Default().Errorf(format, args...) }

// Plain prints a message without color
func Plain(msg string) { Default().Plain(msg) }

// Plainf prints a formatted message without color
func Plainf(format string, args ...interface{}) { Default().Plainf(format, args...) }
