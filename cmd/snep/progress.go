package main

import (
	"context"

	"snep/internal/driver"
	"snep/internal/ui"
)

// withProgress runs work, showing the progress view on stderr when mode
// allows it.
func (a *app) withProgress(ctx context.Context, mode uiMode, title string, opts driver.Options, work func(driver.Options) error) error {
	if !a.shouldUseTUI(mode) {
		return work(opts)
	}
	return ui.Run(ctx, title, a.stderr, func(sink driver.ProgressSink) error {
		opts.Progress = sink
		return work(opts)
	})
}
