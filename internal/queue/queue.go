// Package queue provides the concurrent FIFO of filesystem paths shared by the scan workers.
//
// Two independent queues exist during a scan, one for directories waiting to be expanded and
// one for files waiting to be scanned. Each queue has its own lock, held only while the linked
// list is mutated, so directory and file work never contend with each other and no I/O ever
// happens under a queue lock.
//
// Dequeue never blocks: an empty queue returns immediately. Waiting for work is the
// responsibility of the worker pool, which knows whether more work can still appear.
package queue

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Queue is a thread-safe FIFO of paths.
type Queue struct {
	list *linkedlistqueue.Queue
	mu   sync.Mutex
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{list: linkedlistqueue.New()}
}

// Enqueue appends the path to the tail of the queue.
func (q *Queue) Enqueue(path string) {
	q.mu.Lock()
	q.list.Enqueue(path)
	q.mu.Unlock()
}

// Dequeue removes and returns the head of the queue. The second value is false
// if the queue was empty.
func (q *Queue) Dequeue() (string, bool) {
	q.mu.Lock()
	val, ok := q.list.Dequeue()
	q.mu.Unlock()

	if !ok {
		return "", false
	}

	return val.(string), true
}

// Len returns the number of queued paths.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.list.Size()
}

// Empty reports whether the queue holds no paths.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}
