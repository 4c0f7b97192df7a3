package multicom

import (
	"context"
	"sync"
)

// Queue is the asynchronous FIFO contract the hub drains from and fans out to.
// Every operation is non-blocking except WaitForReadable, which suspends the
// caller until an item may be read or the queue has finished.
type Queue[T any] interface {
	QueueReader[T]
	QueueWriter[T]
}

type QueueReader[T any] interface {
	// TryRead pops the oldest item if one is buffered.
	TryRead() (T, bool)
	// WaitForReadable blocks until an item may be available (true) or the
	// queue is finished and fully drained (false). The only error returned
	// is the context's cancellation cause.
	WaitForReadable(ctx context.Context) (bool, error)
	// Completed reports whether the queue was completed and with which error.
	// It never consumes the terminal state.
	Completed() (bool, error)
}

type QueueWriter[T any] interface {
	// TryWrite appends an item unless the queue is completed or full.
	TryWrite(item T) bool
	// Complete marks the queue finished, with a nil error for a graceful end.
	// Only the first call wins, later calls report false.
	Complete(err error) bool
	Completed() (bool, error)
}

type QueueConfig struct {
	Capacity int // max buffered items, 0 means unbounded
}

type queue[T any] struct {
	capacity int
	mu       sync.Mutex
	items    []T
	done     bool
	err      error
	wakeC    chan struct{} // closed and replaced whenever readers must recheck
}

// NewQueue creates an in-memory FIFO queue satisfying the Queue contract.
func NewQueue[T any](conf QueueConfig) Queue[T] {
	return &queue[T]{
		capacity: conf.Capacity,
		items:    nil,
		wakeC:    make(chan struct{}),
	}
}

func (q *queue[T]) TryRead() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *queue[T]) TryWrite(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done {
		return false
	}

	if q.capacity > 0 && len(q.items) >= q.capacity {
		return false
	}

	q.items = append(q.items, item)
	q.wake()
	return true
}

func (q *queue[T]) WaitForReadable(ctx context.Context) (bool, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			q.mu.Unlock()
			return true, nil
		}
		if q.done {
			// finished and drained
			q.mu.Unlock()
			return false, nil
		}
		wakeC := q.wakeC
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-wakeC:
			// state changed, recheck
		}
	}
}

func (q *queue[T]) Complete(err error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done {
		return false
	}

	q.done = true
	q.err = err
	q.wake()
	return true
}

func (q *queue[T]) Completed() (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.done, q.err
}

// wake releases every waiter by closing the current wake channel and
// swapping in a fresh one. Callers must hold q.mu.
func (q *queue[T]) wake() {
	close(q.wakeC)
	q.wakeC = make(chan struct{})
}
