package cli

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gruntwork-io/ugrep/options"
)

const (
	EnvVarPrefix = "UGREP_"

	FlagNameWorkers                   = "workers"
	FlagNameLogLevel                  = "log-level"
	FlagNameLogFormat                 = "log-format"
	FlagNameNoColor                   = "no-color"
	FlagNameSummary                   = "summary"
	FlagNameTelemetryTraceExporter    = "telemetry-trace-exporter"
	FlagNameTelemetryTraceEndpoint    = "telemetry-trace-exporter-http-endpoint"
	FlagNameTelemetryMetricExporter   = "telemetry-metric-exporter"
	FlagNameTelemetryExporterInsecure = "telemetry-exporter-insecure-endpoint"

	traceParentEnvVar = "TRACEPARENT"
	// noColorEnvVar disables colors when set to any non-empty value, see https://no-color.org.
	noColorEnvVar = "NO_COLOR"
)

// EnvVars returns the environment variable names of a flag, e.g. `log-level` is `UGREP_LOG_LEVEL`.
func EnvVars(flagName string, extra ...string) []string {
	name := EnvVarPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))

	return append([]string{name}, extra...)
}

// NewFlags returns the global flags. Values are written to opts, except the ones that need parsing.
func NewFlags(opts *options.Options) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        FlagNameWorkers,
			Aliases:     []string{"j"},
			Usage:       "Number of concurrent workers. Defaults to the number of CPUs.",
			EnvVars:     EnvVars(FlagNameWorkers),
			Value:       opts.Workers,
			Destination: &opts.Workers,
		},
		&cli.StringFlag{
			Name:    FlagNameLogLevel,
			Usage:   "Sets the logging level: error, warn, info, debug or trace.",
			EnvVars: EnvVars(FlagNameLogLevel),
			Value:   opts.LogLevel.String(),
		},
		&cli.StringFlag{
			Name:        FlagNameLogFormat,
			Usage:       "Sets the log format: pretty or json.",
			EnvVars:     EnvVars(FlagNameLogFormat),
			Value:       opts.LogFormat,
			Destination: &opts.LogFormat,
		},
		&cli.BoolFlag{
			Name:    FlagNameNoColor,
			Usage:   "Disables colored output. Also disabled by a non-empty NO_COLOR.",
			EnvVars: EnvVars(FlagNameNoColor),
		},
		&cli.BoolFlag{
			Name:        FlagNameSummary,
			Usage:       "Writes a summary of the search to stderr.",
			EnvVars:     EnvVars(FlagNameSummary),
			Destination: &opts.ShowSummary,
		},
		&cli.StringFlag{
			Name:        FlagNameTelemetryTraceExporter,
			Usage:       "Exports traces: none, console, otlpHttp, otlpGrpc or http.",
			EnvVars:     EnvVars(FlagNameTelemetryTraceExporter),
			Destination: &opts.Telemetry.TraceExporter,
		},
		&cli.StringFlag{
			Name:        FlagNameTelemetryTraceEndpoint,
			Usage:       "Endpoint of the http trace exporter.",
			EnvVars:     EnvVars(FlagNameTelemetryTraceEndpoint),
			Destination: &opts.Telemetry.TraceExporterHTTPEndpoint,
		},
		&cli.StringFlag{
			Name:        FlagNameTelemetryMetricExporter,
			Usage:       "Exports metrics: none, console, otlpHttp or otlpGrpc.",
			EnvVars:     EnvVars(FlagNameTelemetryMetricExporter),
			Destination: &opts.Telemetry.MetricExporter,
		},
		&cli.BoolFlag{
			Name:        FlagNameTelemetryExporterInsecure,
			Usage:       "Uses plain connections for the OTLP exporters.",
			EnvVars:     EnvVars(FlagNameTelemetryExporterInsecure),
			Destination: &opts.Telemetry.ExporterInsecureEndpoint,
		},
	}
}
