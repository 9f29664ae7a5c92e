package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/pkg/log"
)

const defaultTimestampFormat = "15:04:05.000"

var _ logrus.Formatter = new(PrettyFormatter)

// PrettyFormatter renders human readable log lines:
//
//	15:04:05.000 WARN   cannot list directory path=/root/secret worker=3
type PrettyFormatter struct {
	// TimestampFormat to use for display. An empty value disables timestamps.
	TimestampFormat string

	// DisableColors forces plain output.
	DisableColors bool

	colorScheme log.CompiledColorScheme
}

// NewPrettyFormatter returns a new PrettyFormatter instance with default values.
func NewPrettyFormatter() *PrettyFormatter {
	return &PrettyFormatter{
		TimestampFormat: defaultTimestampFormat,
		colorScheme:     log.DefaultColorScheme().Compile(),
	}
}

// Format implements logrus.Formatter
func (formatter *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	level := log.FromLogrusLevel(entry.Level)
	levelStr := strings.ToUpper(fmt.Sprintf("%-6s ", level))

	var timestamp string
	if formatter.TimestampFormat != "" {
		timestamp = entry.Time.Format(formatter.TimestampFormat) + " "
	}

	keyColor := func(s string) string { return s }

	if !formatter.DisableColors {
		levelStr = formatter.colorScheme.LevelColorFunc(level)(levelStr)
		timestamp = formatter.colorScheme.ColorFunc(log.TimestampStyle)(timestamp)
		keyColor = formatter.colorScheme.ColorFunc(log.FieldKeyStyle)
	}

	if _, err := fmt.Fprintf(buf, "%s%s%s", timestamp, levelStr, entry.Message); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	fields := log.Fields(entry.Data)
	for _, key := range fields.Keys() {
		if _, err := fmt.Fprintf(buf, " %s=%s", keyColor(key), formatValue(fields[key])); err != nil {
			return nil, errors.WithStackTrace(err)
		}
	}

	if err := buf.WriteByte('\n'); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	return buf.Bytes(), nil
}

func formatValue(value any) string {
	var str string

	switch val := value.(type) {
	case error:
		str = val.Error()
	case fmt.Stringer:
		str = val.String()
	case string:
		str = val
	default:
		str = fmt.Sprint(val)
	}

	if needsQuoting(str) {
		return fmt.Sprintf("%q", str)
	}

	return str
}

func needsQuoting(text string) bool {
	if len(text) == 0 {
		return true
	}

	for _, ch := range text {
		if ch <= ' ' || ch == '"' || ch == '=' {
			return true
		}
	}

	return false
}
