package report

import (
	"fmt"
	"time"

	"github.com/mgutz/ansi"
)

// Colorizer colors the match report and the search summary.
type Colorizer struct {
	pathColorizer         func(string) string
	lineNumColorizer      func(string) string
	headingTitleColorizer func(string) string
	countColorizer        func(string) string
	skippedColorizer      func(string) string
	errorColorizer        func(string) string
	nanosecondColorizer   func(string) string
	microsecondColorizer  func(string) string
	millisecondColorizer  func(string) string
	secondColorizer       func(string) string
	minuteColorizer       func(string) string
	defaultColorizer      func(string) string
}

// NewColorizer creates a new Colorizer. When shouldColor is false every colorizer returns its input.
func NewColorizer(shouldColor bool) *Colorizer {
	if !shouldColor {
		noColor := func(s string) string { return s }

		return &Colorizer{
			pathColorizer:         noColor,
			lineNumColorizer:      noColor,
			headingTitleColorizer: noColor,
			countColorizer:        noColor,
			skippedColorizer:      noColor,
			errorColorizer:        noColor,
			nanosecondColorizer:   noColor,
			microsecondColorizer:  noColor,
			millisecondColorizer:  noColor,
			secondColorizer:       noColor,
			minuteColorizer:       noColor,
			defaultColorizer:      noColor,
		}
	}

	return &Colorizer{
		pathColorizer:         ansi.ColorFunc("magenta+b"),
		lineNumColorizer:      ansi.ColorFunc("green"),
		headingTitleColorizer: ansi.ColorFunc("yellow+bh"),
		countColorizer:        ansi.ColorFunc("white+bh"),
		skippedColorizer:      ansi.ColorFunc("blue+bh"),
		errorColorizer:        ansi.ColorFunc("red+bh"),
		nanosecondColorizer:   ansi.ColorFunc("cyan+bh"),
		microsecondColorizer:  ansi.ColorFunc("cyan+bh"),
		millisecondColorizer:  ansi.ColorFunc("cyan+bh"),
		secondColorizer:       ansi.ColorFunc("green+bh"),
		minuteColorizer:       ansi.ColorFunc("yellow+bh"),
		defaultColorizer:      ansi.ColorFunc("white+bh"),
	}
}

// colorDuration returns the duration as a string, colored based on the duration.
func (c *Colorizer) colorDuration(duration time.Duration) string {
	if duration < 0 {
		return c.defaultColorizer("N/A")
	}

	if duration < time.Microsecond {
		return c.nanosecondColorizer(fmt.Sprintf("%dns", duration.Nanoseconds()))
	}

	if duration < time.Millisecond {
		return c.microsecondColorizer(fmt.Sprintf("%dµs", duration.Microseconds()))
	}

	if duration < time.Second {
		return c.millisecondColorizer(fmt.Sprintf("%dms", duration.Milliseconds()))
	}

	if duration < time.Minute {
		return c.secondColorizer(fmt.Sprintf("%ds", int(duration.Seconds())))
	}

	return c.minuteColorizer(fmt.Sprintf("%dm", int(duration.Minutes())))
}
