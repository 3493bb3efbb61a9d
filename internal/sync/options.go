package sync

import "time"

// Options configures the behavior of the orchestrator
type Options struct {
	// DryRun stops the run after the checkpoint commit; nothing is pushed
	DryRun bool

	// Timeout bounds the whole run; zero means no limit
	Timeout time.Duration

	// ForcePush pushes the PR branch with --force
	ForcePush bool
}

// DefaultOptions returns the default sync options
func DefaultOptions() *Options {
	return &Options{
		DryRun:    false,
		Timeout:   0,
		ForcePush: true,
	}
}

// WithDryRun sets the dry-run option
func (o *Options) WithDryRun(dryRun bool) *Options {
	o.DryRun = dryRun
	return o
}

// WithTimeout sets the run timeout
func (o *Options) WithTimeout(timeout time.Duration) *Options {
	if timeout < 0 {
		timeout = 0
	}
	o.Timeout = timeout
	return o
}

// WithForcePush sets whether the PR branch is force-pushed
func (o *Options) WithForcePush(force bool) *Options {
	o.ForcePush = force
	return o
}
