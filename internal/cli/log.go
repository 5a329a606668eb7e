// Package cli implements the cortex command-line interface.
//
// The commands cover each stage of planning on its own and the full flow:
//   - catalog: list or validate the planning catalog
//   - mindmap: lay out the strategy mind map for an objective
//   - allocate: compute a normalized channel allocation
//   - plan: build, save and export a complete plan (optionally interactive)
//   - serve: run the JSON HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is created once by [New] and shared with the pipeline runner and the
// HTTP server.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that stamps entries as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of a step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Built plan (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
