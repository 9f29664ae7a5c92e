package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gruntwork-io/ugrep/internal/queue"
)

// Kind tells which queue a path goes to.
type Kind int

const (
	DirWork Kind = iota
	FileWork
)

func (kind Kind) String() string {
	switch kind {
	case DirWork:
		return "dir"
	case FileWork:
		return "file"
	}

	return fmt.Sprintf("Kind(%d)", int(kind))
}

// State describes one worker of a pool.
type State struct {
	ID     int
	Idle   bool
	Exited bool
}

// Board is the shared state of one search: the directory queue, the file queue and the
// count of pending work units. Idle workers sleep on the board until new work is pushed
// or the count drops to zero.
type Board struct {
	dirs    *queue.Queue
	files   *queue.Queue
	cond    *sync.Cond
	states  []State
	pending atomic.Int64
	mu      sync.Mutex
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	board := &Board{
		dirs:  queue.New(),
		files: queue.New(),
	}
	board.cond = sync.NewCond(&board.mu)

	return board
}

// Push adds a work unit for path and makes it visible in the queue of the given kind.
// The unit is counted before it is enqueued, so the counter never undercounts visible work.
func (board *Board) Push(kind Kind, path string) {
	board.pending.Add(1)

	switch kind {
	case DirWork:
		board.dirs.Enqueue(path)
	case FileWork:
		board.files.Enqueue(path)
	default:
		panic(fmt.Sprintf("worker: unknown work kind %s", kind))
	}

	board.mu.Lock()
	board.cond.Signal()
	board.mu.Unlock()
}

// PopFile removes the oldest queued file, if any.
func (board *Board) PopFile() (string, bool) {
	return board.files.Dequeue()
}

// PopDir removes the oldest queued directory, if any.
func (board *Board) PopDir() (string, bool) {
	return board.dirs.Dequeue()
}

// Done completes one work unit. When no unit is left every waiting worker is woken up.
func (board *Board) Done() {
	pending := board.pending.Add(-1)
	if pending < 0 {
		panic("worker: Done called more times than Push")
	}

	if pending == 0 {
		board.wakeAll()
	}
}

// Pending returns the number of work units not completed yet.
func (board *Board) Pending() int64 {
	return board.pending.Load()
}

// Quiescent reports whether all pushed work has been completed.
func (board *Board) Quiescent() bool {
	return board.pending.Load() == 0
}

func (board *Board) wakeAll() {
	board.mu.Lock()
	board.cond.Broadcast()
	board.mu.Unlock()
}

// await blocks the worker id while there is nothing to dequeue but work is still in flight.
// It returns true once the board is quiescent.
func (board *Board) await(ctx context.Context, id int) bool {
	board.mu.Lock()
	defer board.mu.Unlock()

	board.setIdle(id, true)

	for board.dirs.Empty() && board.files.Empty() && board.pending.Load() > 0 && ctx.Err() == nil {
		board.cond.Wait()
	}

	board.setIdle(id, false)

	return board.Quiescent()
}

func (board *Board) register(workers int) {
	board.mu.Lock()
	defer board.mu.Unlock()

	board.states = make([]State, workers)
	for id := range board.states {
		board.states[id].ID = id
	}
}

// setIdle must be called with the lock held.
func (board *Board) setIdle(id int, idle bool) {
	if id < len(board.states) {
		board.states[id].Idle = idle
	}
}

func (board *Board) exit(id int) {
	board.mu.Lock()
	defer board.mu.Unlock()

	if id < len(board.states) {
		board.states[id].Exited = true
		board.states[id].Idle = false
	}
}

func (board *Board) snapshot() []State {
	board.mu.Lock()
	defer board.mu.Unlock()

	states := make([]State, len(board.states))
	copy(states, board.states)

	return states
}
