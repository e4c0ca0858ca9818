package ui

import (
	"io"

	"github.com/shaladdle/rcopy/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     stats.Reader
	// Width is the terminal width used to fit the in-place line.
	Width   int
	IsTTY   bool
	Quiet   bool
	Verbose bool
	DryRun  bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	if !cfg.IsTTY {
		return &plainPresenter{
			w:       cfg.Writer,
			errW:    cfg.ErrWriter,
			stats:   cfg.Stats,
			verbose: cfg.Verbose,
			dryRun:  cfg.DryRun,
		}
	}
	return &ttyPresenter{
		w:       cfg.ErrWriter, // the live line renders to stderr (the TTY)
		stats:   cfg.Stats,
		width:   cfg.Width,
		verbose: cfg.Verbose,
		dryRun:  cfg.DryRun,
	}
}
