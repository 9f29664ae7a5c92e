// Package search runs one recursive search: it wires the work board, the walkers, the
// scanner and the reporter together and drives them with a worker pool.
package search

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/internal/report"
	"github.com/gruntwork-io/ugrep/internal/scanner"
	"github.com/gruntwork-io/ugrep/internal/sniff"
	"github.com/gruntwork-io/ugrep/internal/walk"
	"github.com/gruntwork-io/ugrep/internal/worker"
	"github.com/gruntwork-io/ugrep/options"
	"github.com/gruntwork-io/ugrep/pkg/log"
	"github.com/gruntwork-io/ugrep/telemetry"
)

// Run searches every text file below opts.RootPath for opts.Term and writes one block per
// matching file to opts.Writer. Per-path failures are logged and counted, they never stop
// the search. Options carried by ctx take precedence over opts. The returned stats are valid
// even when an error is returned.
func Run(ctx context.Context, opts *options.Options) (*Stats, error) {
	opts = opts.OptionsFromContext(ctx)
	stats := NewStats(uuid.NewString())

	if err := opts.Validate(); err != nil {
		return stats, err
	}

	fileScanner, err := scanner.New(opts.FS, opts.Term)
	if err != nil {
		return stats, err
	}

	logger := opts.Logger.WithField(log.FieldKeyRun, stats.RunID)
	ctx = log.ContextWithLogger(ctx, logger)

	logger.Debugf("Searching %s for %q with %d workers", opts.RootPath, opts.Term, opts.Workers)

	var (
		board      = worker.NewBoard()
		dispatcher = walk.NewDispatcher(opts.FS, board, stats.pathError)
		handler    = &handler{
			scanner:  fileScanner,
			expander: walk.NewExpander(opts.FS, dispatcher, stats.pathError),
			reporter: report.NewReporter(opts.Writer, report.WithColor(opts.Color)),
			stats:    stats,
		}
		pool = worker.NewPool(board, opts.Workers, handler, worker.WithLogger(logger))
	)

	tlm := telemetry.TelemeterFromContext(ctx)
	attrs := map[string]any{
		"run":     stats.RunID,
		"root":    opts.RootPath,
		"workers": pool.Workers(),
	}

	started := time.Now()

	err = tlm.Collect(ctx, "search", attrs, func(ctx context.Context) error {
		if traceParent := telemetry.TraceParentFromContext(ctx); traceParent != "" {
			logger.Debugf("Search span %s", traceParent)
		}

		if err := dispatcher.Dispatch(ctx, opts.RootPath); err != nil {
			return err
		}

		return pool.Run(ctx)
	})

	stats.Duration = time.Since(started)
	stats.record(ctx, tlm)

	logger.Debugf("Search finished in %s: %d files scanned, %d matched, %d lines, %d directories, %d path errors",
		stats.Duration, stats.FilesScanned.Value(), stats.FilesMatched.Value(), stats.SpansReported.Value(),
		stats.DirsExpanded.Value(), stats.PathErrors.Value())

	if err != nil {
		return stats, errors.WithStackTrace(err)
	}

	return stats, nil
}

// handler processes the paths taken from the board.
type handler struct {
	scanner  *scanner.Scanner
	expander *walk.Expander
	reporter *report.Reporter
	stats    *Stats
}

func (h *handler) ScanFile(ctx context.Context, path string) {
	logger := log.LoggerFromContext(ctx).WithField(log.FieldKeyPath, path)

	res, err := h.scanner.Scan(path)
	if err != nil {
		logger.Debugf("Skipping unreadable file: %v", err)
	}

	switch res.Kind {
	case sniff.Binary:
		h.stats.BinarySkipped.Inc()
		logger.Tracef("Skipping binary file")

		return
	case sniff.Unreadable:
		h.stats.UnreadableSkipped.Inc()
		return
	case sniff.Text:
	}

	h.stats.FilesScanned.Inc()

	if !res.Matched() {
		return
	}

	h.stats.FilesMatched.Inc()
	h.stats.SpansReported.Add(int64(len(res.Spans)))

	if err := h.reporter.Write(res); err != nil {
		logger.Errorf("Failed to write matches: %v", err)
	}
}

func (h *handler) ExpandDir(ctx context.Context, path string) {
	if err := h.expander.Expand(ctx, path); err != nil {
		return
	}

	h.stats.DirsExpanded.Inc()
}
