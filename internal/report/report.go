// Package report writes the per-file match blocks and the end of run summary.
package report

import (
	"bytes"
	"io"
	"strconv"
	"sync"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/internal/scanner"
)

// Reporter writes match blocks to a shared writer. Blocks from concurrent callers never interleave.
type Reporter struct {
	w         io.Writer
	colorizer *Colorizer
	mu        sync.Mutex
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithColor enables or disables colored output.
func WithColor(shouldColor bool) Option {
	return func(r *Reporter) {
		r.colorizer = NewColorizer(shouldColor)
	}
}

// NewReporter creates a reporter writing to w. Colors are disabled unless WithColor(true) is given.
func NewReporter(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		w:         w,
		colorizer: NewColorizer(false),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Write renders the block of res and writes it with a single call while holding the lock.
// Results without spans are not written.
func (r *Reporter) Write(res *scanner.Result) error {
	if !res.Matched() {
		return nil
	}

	block := r.render(res)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.w.Write(block); err != nil {
		return errors.WithStackTrace(err)
	}

	return nil
}

func (r *Reporter) render(res *scanner.Result) []byte {
	var buf bytes.Buffer

	buf.WriteString(r.colorizer.pathColorizer(res.Path))
	buf.WriteByte('\n')

	for _, span := range res.Spans {
		buf.WriteString(r.colorizer.lineNumColorizer(strconv.Itoa(span.Line)))
		buf.WriteString(": ")
		buf.WriteString(span.Snippet)
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')

	return buf.Bytes()
}
