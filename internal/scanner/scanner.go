// Package scanner finds the lines of a text file that contain a literal search term.
//
// Only the first occurrence on each line is recorded, and the reported snippet starts at
// that occurrence and is cut to MaxSnippetLen bytes.
package scanner

import (
	"bufio"
	"bytes"
	"io"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/internal/sniff"
	"github.com/gruntwork-io/ugrep/internal/vfs"
)

const (
	// MaxSnippetLen is the maximum number of bytes of a reported snippet.
	MaxSnippetLen = 63

	readBufferSize = 64 * 1024
)

// ErrEmptyTerm is returned when a scanner is created without a search term.
var ErrEmptyTerm = errors.New("search term must not be empty")

// Span is a single matching line.
type Span struct {
	// Snippet is the line text starting at the match, at most MaxSnippetLen bytes long.
	Snippet string
	// Line is the 1-based line number.
	Line int
}

// Result holds the outcome of scanning one file.
type Result struct {
	Path  string
	Spans []Span
	Kind  sniff.Kind
}

// Matched reports whether at least one line matched.
func (res *Result) Matched() bool {
	return res != nil && len(res.Spans) > 0
}

// Scanner searches files of a filesystem for a term.
type Scanner struct {
	fs   vfs.FS
	term []byte
}

// New returns a Scanner looking for term, which is matched literally and case-sensitively.
func New(fs vfs.FS, term string) (*Scanner, error) {
	if term == "" {
		return nil, ErrEmptyTerm
	}

	return &Scanner{fs: fs, term: []byte(term)}, nil
}

// Scan sniffs the file at path and, if it is text, collects a span for every matching line.
// Binary and unreadable files produce a result without spans. An error is only returned
// when the file could not be opened or read; the result is then marked unreadable.
func (scanner *Scanner) Scan(path string) (*Result, error) {
	if kind := sniff.Sniff(scanner.fs, path); kind != sniff.Text {
		return &Result{Path: path, Kind: kind}, nil
	}

	file, err := scanner.fs.Open(path)
	if err != nil {
		return &Result{Path: path, Kind: sniff.Unreadable}, errors.WithStackTrace(err)
	}
	defer file.Close() //nolint:errcheck

	return scanner.ScanReader(path, file)
}

// ScanReader collects the matching lines of r without sniffing the content. When r fails
// midway the result is marked unreadable and carries no spans.
func (scanner *Scanner) ScanReader(path string, r io.Reader) (*Result, error) {
	res := &Result{Path: path, Kind: sniff.Text}

	if err := scanner.scanLines(r, res); err != nil {
		res.Kind = sniff.Unreadable
		res.Spans = nil

		return res, errors.WithStackTrace(err)
	}

	return res, nil
}

func (scanner *Scanner) scanLines(r io.Reader, res *Result) error {
	var (
		reader = bufio.NewReaderSize(r, readBufferSize)
		long   []byte
	)

	for lineNum := 1; ; lineNum++ {
		line, err := reader.ReadSlice('\n')

		// lines longer than the buffer are assembled piece by piece
		if errors.Is(err, bufio.ErrBufferFull) {
			long = append(long[:0], line...)

			for errors.Is(err, bufio.ErrBufferFull) {
				line, err = reader.ReadSlice('\n')
				long = append(long, line...)
			}

			line = long
		}

		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if len(line) == 0 && err != nil {
			return nil
		}

		line = bytes.TrimSuffix(line, []byte{'\n'})

		if span, ok := scanner.match(line, lineNum); ok {
			res.Spans = append(res.Spans, span)
		}

		if err != nil {
			return nil
		}
	}
}

func (scanner *Scanner) match(line []byte, lineNum int) (Span, bool) {
	idx := bytes.Index(line, scanner.term)
	if idx < 0 {
		return Span{}, false
	}

	snippet := line[idx:]
	if len(snippet) > MaxSnippetLen {
		snippet = snippet[:MaxSnippetLen]
	}

	return Span{Line: lineNum, Snippet: string(snippet)}, true
}
