package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	prefix              = "   "
	searchSummaryHeader = "❯❯ Search Summary"
	separatorLineLength = 28
	valueSpacing        = 2

	filesScannedLabel  = "Files scanned"
	filesMatchedLabel  = "Files matched"
	linesMatchedLabel  = "Lines matched"
	dirsExpandedLabel  = "Directories"
	binarySkippedLabel = "Binary skipped"
	unreadableLabel    = "Unreadable"
	pathErrorsLabel    = "Path errors"
)

// Summary holds the totals of one search run.
type Summary struct {
	Duration          time.Duration
	FilesScanned      int64
	FilesMatched      int64
	SpansReported     int64
	DirsExpanded      int64
	BinarySkipped     int64
	UnreadableSkipped int64
	PathErrors        int64
	shouldColor       bool
}

// SummaryOption configures a Summary.
type SummaryOption func(*Summary)

// WithSummaryColor enables or disables colored summary output.
func WithSummaryColor(shouldColor bool) SummaryOption {
	return func(s *Summary) {
		s.shouldColor = shouldColor
	}
}

// Apply applies the given options to the summary.
func (s *Summary) Apply(opts ...SummaryOption) *Summary {
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Write writes the summary to a writer. Skipped and error rows are only written when non-zero.
func (s *Summary) Write(w io.Writer) error {
	colorizer := NewColorizer(s.shouldColor)

	header := fmt.Sprintf("%s  %s",
		colorizer.headingTitleColorizer(searchSummaryHeader),
		colorizer.colorDuration(s.Duration),
	)
	if err := s.writeLine(w, header); err != nil {
		return err
	}

	if err := s.writeLine(w, prefix+strings.Repeat("─", separatorLineLength)); err != nil {
		return err
	}

	entries := []struct {
		label     string
		value     int64
		colorize  func(string) string
		alwaysOut bool
	}{
		{filesScannedLabel, s.FilesScanned, colorizer.countColorizer, true},
		{filesMatchedLabel, s.FilesMatched, colorizer.countColorizer, true},
		{linesMatchedLabel, s.SpansReported, colorizer.countColorizer, true},
		{dirsExpandedLabel, s.DirsExpanded, colorizer.countColorizer, true},
		{binarySkippedLabel, s.BinarySkipped, colorizer.skippedColorizer, false},
		{unreadableLabel, s.UnreadableSkipped, colorizer.skippedColorizer, false},
		{pathErrorsLabel, s.PathErrors, colorizer.errorColorizer, false},
	}

	labelWidth := 0

	for _, entry := range entries {
		labelWidth = max(labelWidth, visualLength(entry.label))
	}

	for _, entry := range entries {
		if entry.value == 0 && !entry.alwaysOut {
			continue
		}

		value := entry.colorize(strconv.FormatInt(entry.value, 10))
		if err := s.writeLine(w, prefix+entry.label+padding(entry.label, labelWidth)+value); err != nil {
			return err
		}
	}

	return nil
}

func (s *Summary) writeLine(w io.Writer, value string) error {
	_, err := fmt.Fprintf(w, "%s\n", value)

	return err
}

// padding aligns the values of all rows in one column.
func padding(label string, labelWidth int) string {
	return strings.Repeat(" ", labelWidth-visualLength(label)+valueSpacing)
}

// ansiRegex is used to remove ANSI escape codes from strings.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visualLength returns the length of text without ANSI escape codes.
func visualLength(text string) int {
	return len([]rune(ansiRegex.ReplaceAllString(text, "")))
}
