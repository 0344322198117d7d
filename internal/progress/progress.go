// Package progress reports mining progress on stderr.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a spinner that counts processed commits.
type Tracker struct {
	bar   *progressbar.ProgressBar
	out   io.Writer
	label string
}

// Option configures a Tracker.
type Option func(*trackerConfig)

type trackerConfig struct {
	out io.Writer
}

// WithWriter sets the destination (stderr by default).
func WithWriter(w io.Writer) Option {
	return func(c *trackerConfig) {
		if w != nil {
			c.out = w
		}
	}
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string, opts ...Option) *Tracker {
	cfg := &trackerConfig{out: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cfg.out),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, out: cfg.out, label: label}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// FinishSuccess clears the spinner completely (no output).
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishError clears the spinner and prints an error message.
func (t *Tracker) FinishError(err error) {
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}
