package multicom

import (
	"sync"
	"sync/atomic"

	"github.com/ambitiousfew/rxd/log"
)

// Subscription binds one observer to a broadcaster. It enforces at-most-once
// terminal delivery on its own, independent of the broadcaster's terminal
// latch. Disposal and termination are orthogonal: a subscription may be
// disposed without ever seeing a terminal event and vice versa.
type Subscription[T any] struct {
	observer   Observer[T]
	mu         sync.Mutex // serializes deliveries so no OnNext can land after the terminal event
	terminated bool
	disposed   atomic.Bool
	unregister func(*Subscription[T])
	logger     log.Logger
}

func newSubscription[T any](observer Observer[T], logger log.Logger, unregister func(*Subscription[T])) *Subscription[T] {
	return &Subscription[T]{
		observer:   observer,
		unregister: unregister,
		logger:     logger,
	}
}

// Dispose detaches the subscription from its broadcaster. It never delivers
// a terminal event and calling it more than once has no additional effect.
// Dispose takes no delivery lock, so an observer may dispose itself from
// within its own callback.
func (s *Subscription[T]) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	if s.unregister != nil {
		s.unregister(s)
	}
}

// Disposed reports whether Dispose has been called.
func (s *Subscription[T]) Disposed() bool {
	return s.disposed.Load()
}

// Terminated reports whether the observer already received OnError or OnCompleted.
func (s *Subscription[T]) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// next forwards one item to the observer unless the subscription is already
// terminated or disposed.
func (s *Subscription[T]) next(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated || s.disposed.Load() {
		return
	}

	defer s.recoverObserver("next")
	s.observer.OnNext(item)
}

// terminal delivers the one allowed terminal notification, err==nil meaning
// graceful completion. Racing callers lose against the first latch.
func (s *Subscription[T]) terminal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return
	}
	s.terminated = true

	if s.disposed.Load() {
		// observer was detached before the stream ended, nothing to tell
		return
	}

	defer s.recoverObserver("terminal")
	if err != nil {
		s.observer.OnError(err)
	} else {
		s.observer.OnCompleted()
	}
}

// recoverObserver swallows a panicking observer so one misbehaving consumer
// cannot break delivery to the others.
func (s *Subscription[T]) recoverObserver(op string) {
	if r := recover(); r != nil {
		s.logger.Log(log.LevelError, "observer panicked during delivery", log.String("op", op), log.Any("panic", r))
	}
}
