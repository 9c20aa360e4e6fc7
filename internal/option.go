package internal

import (
	"io"

	"github.com/banikojp/remove-unuse-assets/internal/reconcile"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	paths     []string
	dryRun    bool
	assumeYes bool
	watch     bool
	out       io.Writer
	confirm   reconcile.ConfirmFunc
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithPaths sets the input files and directories to process.
func WithPaths(paths []string) Option {
	return func(a *application) {
		a.paths = paths
	}
}

// WithDryRun reports unused files without deleting them.
func WithDryRun(v bool) Option {
	return func(a *application) {
		a.dryRun = v
	}
}

// WithAssumeYes skips the interactive confirmation prompt.
func WithAssumeYes(v bool) Option {
	return func(a *application) {
		a.assumeYes = v
	}
}

// WithWatch keeps the process running and re-reconciles documents on change.
func WithWatch(v bool) Option {
	return func(a *application) {
		a.watch = v
	}
}

// WithOutput redirects the human-readable report (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithConfirm overrides the interactive confirmation capability.
func WithConfirm(f reconcile.ConfirmFunc) Option {
	return func(a *application) {
		a.confirm = f
	}
}
