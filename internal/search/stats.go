package search

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/gruntwork-io/ugrep/internal/report"
	"github.com/gruntwork-io/ugrep/telemetry"
)

// Stats counts what happened during a search. The counters are updated concurrently by the workers.
type Stats struct {
	FilesScanned      *xsync.Counter
	FilesMatched      *xsync.Counter
	SpansReported     *xsync.Counter
	DirsExpanded      *xsync.Counter
	BinarySkipped     *xsync.Counter
	UnreadableSkipped *xsync.Counter
	PathErrors        *xsync.Counter
	RunID             string
	Duration          time.Duration
}

// NewStats creates zeroed stats.
func NewStats(runID string) *Stats {
	return &Stats{
		RunID:             runID,
		FilesScanned:      xsync.NewCounter(),
		FilesMatched:      xsync.NewCounter(),
		SpansReported:     xsync.NewCounter(),
		DirsExpanded:      xsync.NewCounter(),
		BinarySkipped:     xsync.NewCounter(),
		UnreadableSkipped: xsync.NewCounter(),
		PathErrors:        xsync.NewCounter(),
	}
}

// Summary returns the totals for the run summary.
func (stats *Stats) Summary() *report.Summary {
	return &report.Summary{
		Duration:          stats.Duration,
		FilesScanned:      stats.FilesScanned.Value(),
		FilesMatched:      stats.FilesMatched.Value(),
		SpansReported:     stats.SpansReported.Value(),
		DirsExpanded:      stats.DirsExpanded.Value(),
		BinarySkipped:     stats.BinarySkipped.Value(),
		UnreadableSkipped: stats.UnreadableSkipped.Value(),
		PathErrors:        stats.PathErrors.Value(),
	}
}

func (stats *Stats) pathError(string, error) {
	stats.PathErrors.Inc()
}

// record exports the counters as metrics.
func (stats *Stats) record(ctx context.Context, tlm *telemetry.Telemeter) {
	attrs := map[string]any{"run": stats.RunID}

	for name, counter := range map[string]*xsync.Counter{
		"files_scanned":      stats.FilesScanned,
		"files_matched":      stats.FilesMatched,
		"spans_reported":     stats.SpansReported,
		"dirs_expanded":      stats.DirsExpanded,
		"binary_skipped":     stats.BinarySkipped,
		"unreadable_skipped": stats.UnreadableSkipped,
		"path_errors":        stats.PathErrors,
	} {
		tlm.Count(ctx, name, counter.Value(), attrs)
	}
}
