// Package options holds the settings of a search run.
package options

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/internal/vfs"
	"github.com/gruntwork-io/ugrep/pkg/log"
	"github.com/gruntwork-io/ugrep/pkg/log/format"
	"github.com/gruntwork-io/ugrep/telemetry"
)

const ContextKey ctxKey = iota

const (
	defaultLogLevel = log.InfoLevel
)

type ctxKey byte

var (
	// ErrEmptyTerm is returned by Validate when no search term is set.
	ErrEmptyTerm = errors.New("search term must not be empty")
	// ErrEmptyRootPath is returned by Validate when no root path is set.
	ErrEmptyRootPath = errors.New("root path must not be empty")
)

// Options are the settings of one search run.
type Options struct {
	// Writer receives the match report.
	Writer io.Writer
	// ErrWriter receives the logs and the summary.
	ErrWriter io.Writer
	// FS is the filesystem that is searched.
	FS vfs.FS
	// Logger is the logger of the run.
	Logger log.Logger
	// Telemetry configures the trace and metric exporters.
	Telemetry *telemetry.Options
	// Term is the literal, case-sensitive search term.
	Term string
	// RootPath is the canonical path the search starts from.
	RootPath string
	// LogFormat is the name of the log format, pretty or json.
	LogFormat string
	// Workers is the number of concurrent workers.
	Workers int
	// LogLevel is the minimum level of the written log entries.
	LogLevel log.Level
	// Color enables the colored match report.
	Color bool
	// LogColor enables colored logs and summary.
	LogColor bool
	// ShowSummary writes a summary of the run to ErrWriter.
	ShowSummary bool
}

// NewOptions creates options with defaults writing to the process standard streams.
func NewOptions() *Options {
	return NewOptionsWithWriters(os.Stdout, os.Stderr)
}

// NewOptionsWithWriters creates options with defaults writing to the given streams.
func NewOptionsWithWriters(stdout, stderr io.Writer) *Options {
	logFormatter, _ := format.ParseFormat(format.PrettyFormatName, false) //nolint:errcheck

	return &Options{
		Writer:    stdout,
		ErrWriter: stderr,
		FS:        vfs.NewOSFS(),
		Logger:    log.New(log.WithOutput(stderr), log.WithLevel(defaultLogLevel), log.WithFormatter(logFormatter)),
		Telemetry: &telemetry.Options{},
		LogFormat: format.PrettyFormatName,
		LogLevel:  defaultLogLevel,
		Workers:   runtime.NumCPU(),
	}
}

// NewOptionsForTest creates options for tests: an in-memory filesystem, discarded output and debug logs.
func NewOptionsForTest(term, rootPath string) *Options {
	opts := NewOptionsWithWriters(io.Discard, io.Discard)
	opts.FS = vfs.NewMemMapFS()
	opts.Term = term
	opts.RootPath = rootPath
	opts.LogLevel = log.DebugLevel
	opts.Logger.SetOptions(log.WithLevel(log.DebugLevel))

	return opts
}

// Validate checks that the options describe a runnable search.
func (opts *Options) Validate() error {
	if opts.Term == "" {
		return ErrEmptyTerm
	}

	if opts.RootPath == "" {
		return ErrEmptyRootPath
	}

	return nil
}

// ConfigureLogger applies the log level, format and color settings to the logger.
func (opts *Options) ConfigureLogger() error {
	formatter, err := format.ParseFormat(opts.LogFormat, opts.LogColor)
	if err != nil {
		return err
	}

	opts.Logger.SetOptions(
		log.WithOutput(opts.ErrWriter),
		log.WithLevel(opts.LogLevel),
		log.WithFormatter(formatter),
	)

	return nil
}

// Clone returns a copy of the options. The logger is cloned as well.
func (opts *Options) Clone() *Options {
	newOpts := *opts
	newOpts.Logger = opts.Logger.Clone()

	if opts.Telemetry != nil {
		telemetryOpts := *opts.Telemetry
		newOpts.Telemetry = &telemetryOpts
	}

	return &newOpts
}

// ContextWithOptions returns a new context carrying the options.
func ContextWithOptions(ctx context.Context, opts *Options) context.Context {
	return context.WithValue(ctx, ContextKey, opts)
}

// OptionsFromContext tries to retrieve options from context, otherwise, returns its own instance.
func (opts *Options) OptionsFromContext(ctx context.Context) *Options {
	if val := ctx.Value(ContextKey); val != nil {
		if opts, ok := val.(*Options); ok {
			return opts
		}
	}

	return opts
}
