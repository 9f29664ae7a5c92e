package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gruntwork-io/ugrep/cli"
	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/options"
	"github.com/gruntwork-io/ugrep/pkg/log"
)

// The main entrypoint for ugrep
func main() {
	opts := options.NewOptions()

	defer errors.Recover(checkForErrorsAndExit(opts.Logger))

	ctx, stop := setupContext(opts)
	err := cli.NewApp(opts).Run(ctx, os.Args)

	stop()
	checkForErrorsAndExit(opts.Logger)(err)
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		exitCode, ok := errors.ExitCode(err)
		if !ok {
			exitCode = 1
		}

		os.Exit(exitCode)
	}
}

// setupContext returns a context that is cancelled on interrupt, so that workers stop dequeuing.
func setupContext(opts *options.Options) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return log.ContextWithLogger(ctx, opts.Logger), stop
}
