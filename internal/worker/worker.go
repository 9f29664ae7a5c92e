// Package worker runs a fixed set of goroutines over a growing amount of work.
//
// Work is pushed on a Board as directories and files. Expanding a directory pushes its
// children, so the total amount of work is unknown up front. Every pushed path is one work
// unit and the board counts the units that are not completed yet. A unit is completed only
// after all of its children have been pushed, hence the count reaches zero exactly when no
// work is queued and no worker can produce more. Workers with nothing to dequeue sleep on the
// board and are woken by new work, by the count reaching zero, or by cancellation.
package worker

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gruntwork-io/ugrep/internal/errors"
	"github.com/gruntwork-io/ugrep/pkg/log"
)

// Handler processes the paths taken from the board. ExpandDir is expected to push the
// children of the directory on the same board before returning.
type Handler interface {
	ScanFile(ctx context.Context, path string)
	ExpandDir(ctx context.Context, path string)
}

// Pool runs a fixed number of workers over a board.
type Pool struct {
	board     *Board
	handler   Handler
	logger    log.Logger
	allErrors *errors.MultiError
	workers   int
	errorsMu  sync.Mutex
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used by the workers.
func WithLogger(logger log.Logger) Option {
	return func(pool *Pool) {
		pool.logger = logger
	}
}

// NewPool creates a pool of the given number of workers. A non-positive number means one worker per CPU.
func NewPool(board *Board, workers int, handler Handler, opts ...Option) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &Pool{
		board:     board,
		handler:   handler,
		workers:   workers,
		logger:    log.Default(),
		allErrors: &errors.MultiError{},
	}

	for _, opt := range opts {
		opt(pool)
	}

	return pool
}

// Workers returns the number of workers of the pool.
func (pool *Pool) Workers() int {
	return pool.workers
}

// States returns a snapshot of the worker states.
func (pool *Pool) States() []State {
	return pool.board.snapshot()
}

// Run starts the workers and blocks until all of them have exited. Workers exit when the board
// is quiescent or ctx is done. The returned error is the context error on cancellation, or the
// panics recovered while processing paths.
func (pool *Pool) Run(ctx context.Context) error {
	pool.board.register(pool.workers)

	errGroup, ctx := errgroup.WithContext(ctx)

	// sleeping workers must notice cancellation
	stop := context.AfterFunc(ctx, pool.board.wakeAll)
	defer stop()

	for id := range pool.workers {
		errGroup.Go(func() error {
			defer pool.board.exit(id)

			return pool.work(ctx, id)
		})
	}

	if err := errGroup.Wait(); err != nil {
		if errors.IsContextCanceled(err) {
			pool.logger.Debugf("Workers stopped with %d work units pending", pool.board.Pending())
		}

		return err
	}

	pool.errorsMu.Lock()
	defer pool.errorsMu.Unlock()

	return pool.allErrors.ErrorOrNil()
}

func (pool *Pool) work(ctx context.Context, id int) error {
	logger := pool.logger.WithField(log.FieldKeyWorker, id)
	ctx = log.ContextWithLogger(ctx, logger)

	logger.Tracef("Worker started")

	for {
		if err := ctx.Err(); err != nil {
			logger.Tracef("Worker cancelled")
			return errors.WithStackTrace(err)
		}

		worked := false

		for ctx.Err() == nil {
			path, ok := pool.board.PopFile()
			if !ok {
				break
			}

			pool.process(ctx, logger, FileWork, path)

			worked = true
		}

		if path, ok := pool.board.PopDir(); ok {
			pool.process(ctx, logger, DirWork, path)

			worked = true
		}

		if worked {
			continue
		}

		if pool.board.await(ctx, id) {
			logger.Tracef("Worker exited, no work left")
			return nil
		}
	}
}

// process runs the handler for one path and completes its work unit, even if the handler panics.
func (pool *Pool) process(ctx context.Context, logger log.Logger, kind Kind, path string) {
	defer pool.board.Done()

	defer errors.Recover(func(cause error) {
		logger.WithField(log.FieldKeyPath, path).Errorf("Panic while processing %s: %v", kind, cause)
		logger.Trace(errors.ErrorStack(cause))

		pool.appendError(cause)
	})

	if ctx.Err() != nil {
		return
	}

	switch kind {
	case FileWork:
		pool.handler.ScanFile(ctx, path)
	case DirWork:
		pool.handler.ExpandDir(ctx, path)
	}
}

func (pool *Pool) appendError(err error) {
	pool.errorsMu.Lock()
	defer pool.errorsMu.Unlock()

	pool.allErrors = pool.allErrors.Append(err)
}
