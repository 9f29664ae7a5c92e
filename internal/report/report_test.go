package report_test

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruntwork-io/ugrep/internal/report"
	"github.com/gruntwork-io/ugrep/internal/scanner"
)

// callRecorder keeps the bytes of every Write call separately.
type callRecorder struct {
	calls []string
	mu    sync.Mutex
}

func (r *callRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, string(p))

	return len(p), nil
}

func TestReporterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	reporter := report.NewReporter(&buf)

	err := reporter.Write(&scanner.Result{
		Path: "/d/a.txt",
		Spans: []scanner.Span{
			{Line: 2, Snippet: "foo bar"},
			{Line: 5, Snippet: "foo"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/d/a.txt\n2: foo bar\n5: foo\n\n", buf.String())
}

func TestReporterSkipsResultsWithoutSpans(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	reporter := report.NewReporter(&buf)

	require.NoError(t, reporter.Write(&scanner.Result{Path: "/d/b.txt"}))
	require.NoError(t, reporter.Write(nil))
	assert.Empty(t, buf.String())
}

func TestReporterBlocksDoNotInterleave(t *testing.T) {
	t.Parallel()

	const (
		writers = 16
		spans   = 50
	)

	recorder := &callRecorder{}
	reporter := report.NewReporter(recorder)

	var wg sync.WaitGroup

	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			res := &scanner.Result{Path: fmt.Sprintf("/f%d", i)}
			for line := 1; line <= spans; line++ {
				res.Spans = append(res.Spans, scanner.Span{Line: line, Snippet: fmt.Sprintf("w%d", i)})
			}

			assert.NoError(t, reporter.Write(res))
		}()
	}

	wg.Wait()

	require.Len(t, recorder.calls, writers)

	for _, call := range recorder.calls {
		lines := strings.Split(strings.TrimSuffix(call, "\n\n"), "\n")
		require.Len(t, lines, spans+1)

		owner := strings.TrimPrefix(lines[0], "/f")
		for _, line := range lines[1:] {
			assert.True(t, strings.HasSuffix(line, ": w"+owner), line)
		}
	}
}

func TestReporterWithColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	reporter := report.NewReporter(&buf, report.WithColor(true))

	require.NoError(t, reporter.Write(&scanner.Result{
		Path:  "/d/a.txt",
		Spans: []scanner.Span{{Line: 7, Snippet: "foo"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "/d/a.txt")
	assert.Contains(t, out, ": foo\n")
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestSummaryWrite(t *testing.T) {
	t.Parallel()

	summary := &report.Summary{
		Duration:      1500 * time.Millisecond,
		FilesScanned:  12,
		FilesMatched:  3,
		SpansReported: 9,
		DirsExpanded:  4,
		BinarySkipped: 2,
	}

	var buf bytes.Buffer

	require.NoError(t, summary.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "❯❯ Search Summary  1s")
	assert.Contains(t, out, "Files scanned   12")
	assert.Contains(t, out, "Files matched   3")
	assert.Contains(t, out, "Lines matched   9")
	assert.Contains(t, out, "Directories     4")
	assert.Contains(t, out, "Binary skipped  2")
	assert.NotContains(t, out, "Unreadable")
	assert.NotContains(t, out, "Path errors")
	assert.NotContains(t, out, "\x1b[")
}

func TestSummaryWriteWithColor(t *testing.T) {
	t.Parallel()

	summary := (&report.Summary{PathErrors: 1}).Apply(report.WithSummaryColor(true))

	var buf bytes.Buffer

	require.NoError(t, summary.Write(&buf))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Path errors")
}
