// Package walk classifies paths and feeds them to the work board.
//
// A Dispatcher looks at a single path without following symbolic links and pushes it as
// directory or file work. An Expander lists a directory and dispatches every child. Links,
// devices, sockets and pipes are never pushed.
package walk

import (
	"context"
	"os"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/internal/vfs"
	"github.com/gruntwork-io/ugrep/internal/worker"
	"github.com/gruntwork-io/ugrep/pkg/log"
	"github.com/gruntwork-io/ugrep/util"
)

// Pusher receives classified paths. It is implemented by *worker.Board.
type Pusher interface {
	Push(kind worker.Kind, path string)
}

// ErrorHandler is called for every path that could not be read.
type ErrorHandler func(path string, err error)

// Dispatcher classifies paths with a link-aware stat and pushes them.
type Dispatcher struct {
	fs      vfs.FS
	pusher  Pusher
	onError ErrorHandler
}

// NewDispatcher creates a Dispatcher. onError may be nil.
func NewDispatcher(fs vfs.FS, pusher Pusher, onError ErrorHandler) *Dispatcher {
	return &Dispatcher{fs: fs, pusher: pusher, onError: onError}
}

// Dispatch pushes path as directory or file work. Symbolic links and special files are
// dropped. A failed stat is logged and returned, and the path is dropped.
func (dispatcher *Dispatcher) Dispatch(ctx context.Context, path string) error {
	logger := log.LoggerFromContext(ctx).WithField(log.FieldKeyPath, path)

	info, err := vfs.Lstat(dispatcher.fs, path)
	if err != nil {
		logger.WithError(err).Warnf("Skipping path")

		err = errors.New(StatError{Path: path, Err: err})
		dispatcher.reportError(path, err)

		return err
	}

	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		logger.Tracef("Ignoring symbolic link")
	case mode.IsDir():
		dispatcher.pusher.Push(worker.DirWork, path)
	case mode.IsRegular():
		dispatcher.pusher.Push(worker.FileWork, path)
	default:
		logger.Tracef("Ignoring special file %s", mode.Type())
	}

	return nil
}

func (dispatcher *Dispatcher) reportError(path string, err error) {
	if dispatcher.onError != nil {
		dispatcher.onError(path, err)
	}
}

// Expander lists directories and dispatches their entries.
type Expander struct {
	fs         vfs.FS
	dispatcher *Dispatcher
	onError    ErrorHandler
}

// NewExpander creates an Expander. onError may be nil.
func NewExpander(fs vfs.FS, dispatcher *Dispatcher, onError ErrorHandler) *Expander {
	return &Expander{fs: fs, dispatcher: dispatcher, onError: onError}
}

// Expand dispatches every entry of dir. When dir cannot be listed, its subtree is skipped
// and the error is logged and returned. Children that fail to dispatch do not stop the expansion.
func (expander *Expander) Expand(ctx context.Context, dir string) error {
	names, err := vfs.ReadDirNames(expander.fs, dir)
	if err != nil {
		log.LoggerFromContext(ctx).WithField(log.FieldKeyPath, dir).WithError(err).Warnf("Skipping directory")

		err = errors.New(ListError{Path: dir, Err: err})

		if expander.onError != nil {
			expander.onError(dir, err)
		}

		return err
	}

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}

		if err := ctx.Err(); err != nil {
			return errors.WithStackTrace(err)
		}

		_ = expander.dispatcher.Dispatch(ctx, util.JoinChild(dir, name)) //nolint:errcheck
	}

	return nil
}
