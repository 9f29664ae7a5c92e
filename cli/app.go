// Package cli implements the ugrep command line: `ugrep [options] <term> <path>`.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/internal/report"
	"github.com/gruntwork-io/ugrep/internal/search"
	"github.com/gruntwork-io/ugrep/options"
	"github.com/gruntwork-io/ugrep/pkg/log"
	"github.com/gruntwork-io/ugrep/telemetry"
	"github.com/gruntwork-io/ugrep/util"
)

const (
	AppName = "ugrep"

	// InterruptedExitCode is the exit code of a search stopped by a signal, as shells report SIGINT.
	InterruptedExitCode = 130

	requiredArgs = 2
)

// Version is the version of the binary, set at build time with
// `-ldflags "-X github.com/gruntwork-io/ugrep/cli.Version=v1.0.0"`.
var Version = "latest"

// ErrEmptyTerm is returned when the search term argument is empty.
var ErrEmptyTerm = errors.New("the search term must not be empty")

func init() {
	cli.AppHelpTemplate = AppHelpTemplate
}

// App is the ugrep CLI application.
type App struct {
	*cli.App
	opts *options.Options
}

// NewApp creates the ugrep CLI application writing to the streams of opts.
func NewApp(opts *options.Options) *App {
	app := cli.NewApp()
	app.Name = AppName
	app.Usage = "Recursively search text files for a literal string"
	app.UsageText = "ugrep [options] <term> <path>"
	app.Description = "Prints every line of every text file below <path> that contains <term>, with its\n" +
		"   line number. Binary files and symbolic links are skipped."
	app.Version = Version
	app.Writer = opts.Writer
	app.ErrWriter = opts.ErrWriter
	app.Flags = NewFlags(opts)
	app.HideHelpCommand = true
	app.Before = beforeAction(opts)
	app.Action = action(opts)

	return &App{App: app, opts: opts}
}

// Run runs the application with the given command line, args[0] being the program name.
func (app *App) Run(ctx context.Context, args []string) error {
	return app.RunContext(ctx, args)
}

func beforeAction(opts *options.Options) cli.BeforeFunc {
	return func(cliCtx *cli.Context) error {
		level, err := log.ParseLevel(cliCtx.String(FlagNameLogLevel))
		if err != nil {
			return errors.ErrorWithExitCode{Err: err, ExitCode: 1}
		}

		noColor := cliCtx.Bool(FlagNameNoColor) || os.Getenv(noColorEnvVar) != ""

		opts.LogLevel = level
		opts.Color = !noColor && isTerminal(opts.Writer)
		opts.LogColor = !noColor && isTerminal(opts.ErrWriter)

		if err := opts.ConfigureLogger(); err != nil {
			return errors.ErrorWithExitCode{Err: err, ExitCode: 1}
		}

		opts.Telemetry.TraceParent = os.Getenv(traceParentEnvVar)

		return nil
	}
}

func action(opts *options.Options) cli.ActionFunc {
	return func(cliCtx *cli.Context) error {
		args := cliCtx.Args()

		// anything else than a term and a path only prints the usage
		if args.Len() != requiredArgs {
			return cli.ShowAppHelp(cliCtx)
		}

		term := args.Get(0)
		if term == "" {
			return errors.ErrorWithExitCode{Err: ErrEmptyTerm, ExitCode: 1}
		}

		rootPath, err := util.ResolveRoot(args.Get(1))
		if err != nil {
			return errors.ErrorWithExitCode{Err: err, ExitCode: 1}
		}

		runOpts := opts.Clone()
		runOpts.Term = term
		runOpts.RootPath = rootPath

		return runSearch(cliCtx.Context, cliCtx.App, runOpts)
	}
}

func runSearch(ctx context.Context, app *cli.App, opts *options.Options) error {
	tlm, err := telemetry.NewTelemeter(ctx, app.Name, app.Version, opts.ErrWriter, opts.Telemetry)
	if err != nil {
		return errors.ErrorWithExitCode{Err: err, ExitCode: 1}
	}

	defer func() {
		if shutdownErr := tlm.Shutdown(context.Background()); shutdownErr != nil {
			opts.Logger.Warnf("Failed to flush telemetry: %v", shutdownErr)
		}
	}()

	ctx = telemetry.ContextWithTelemeter(ctx, tlm)
	ctx = options.ContextWithOptions(ctx, opts)

	stats, err := search.Run(ctx, opts)

	if opts.ShowSummary {
		summary := stats.Summary().Apply(report.WithSummaryColor(opts.LogColor))
		if writeErr := summary.Write(opts.ErrWriter); writeErr != nil {
			opts.Logger.Warnf("Failed to write summary: %v", writeErr)
		}
	}

	if errors.IsContextCanceled(err) {
		return errors.ErrorWithExitCode{
			Err:      errors.WithStackTraceAndPrefix(err, "search interrupted"),
			ExitCode: InterruptedExitCode,
		}
	}

	return err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
