// Package format contains logrus formatters used by the ugrep logger.
package format

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gruntwork-io/ugrep/internal/errors"
)

const (
	PrettyFormatName = "pretty"
	JSONFormatName   = "json"
)

// ParseFormat takes a format name and returns a formatter for it.
// Colors are only used by the pretty format, and only when `color` is true.
func ParseFormat(name string, color bool) (logrus.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PrettyFormatName:
		formatter := NewPrettyFormatter()
		formatter.DisableColors = !color

		return formatter, nil
	case JSONFormatName:
		return NewJSONFormatter(), nil
	}

	return nil, errors.Errorf("invalid log format %q, supported formats: %s", name, strings.Join(AllFormatNames(), ", "))
}

// AllFormatNames returns the sorted names of the supported formats.
func AllFormatNames() []string {
	names := []string{PrettyFormatName, JSONFormatName}
	sort.Strings(names)

	return names
}
