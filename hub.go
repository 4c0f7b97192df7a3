package multicom

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ambitiousfew/rxd/log"
)

// Hub broadcasts one source queue to a dynamic set of destination queues and
// push observers. A background drain goroutine owns the source: it moves every
// item to the live destinations and forwards the source's terminal state, so
// nothing else should read from the source once a hub is bound to it.
type Hub[T any] struct {
	source      Queue[T]
	broadcaster *Broadcaster[T]
	policy      WritePolicy[T]
	logger      log.Logger

	cancel  context.CancelFunc
	drained chan struct{}
	closed  atomic.Bool

	mu    sync.Mutex
	dests map[Queue[T]]*Subscription[T]
}

// NewHub binds a hub to the given source and starts its drain goroutine.
// A nil source is a usage error.
func NewHub[T any](source Queue[T], opts ...Option[T]) (*Hub[T], error) {
	if source == nil {
		return nil, ErrNilSource
	}

	h := &Hub[T]{
		source:  source,
		policy:  DropNewest[T]{},
		logger:  noopLogger{},
		drained: make(chan struct{}),
		dests:   make(map[Queue[T]]*Subscription[T]),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.broadcaster = NewBroadcaster(WithBroadcasterLogger[T](h.logger))

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.drain(ctx)

	return h, nil
}

// AddDestination registers a queue to receive every item the source emits
// from this point on, followed by the source's terminal state. Re-adding a
// registered queue reports true without creating a duplicate forwarding
// path. It reports false once the hub is closed or when dst is nil or the
// source itself.
func (h *Hub[T]) AddDestination(dst Queue[T]) bool {
	if dst == nil || dst == h.source || h.closed.Load() {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Load() {
		// lost the race against Close
		return false
	}

	if _, registered := h.dests[dst]; registered {
		return true
	}

	sub, err := h.broadcaster.Subscribe(queueObserver[T]{dst: dst, policy: h.policy, logger: h.logger})
	if err != nil {
		return false
	}

	h.dests[dst] = sub
	return true
}

// RemoveDestination detaches a previously added queue. The queue receives no
// further items and is completed, marking that this hub will never write to
// it again. It reports false when the hub is closed or dst was never added.
func (h *Hub[T]) RemoveDestination(dst Queue[T]) bool {
	if dst == nil || h.closed.Load() {
		return false
	}

	h.mu.Lock()
	sub, registered := h.dests[dst]
	if !registered {
		h.mu.Unlock()
		return false
	}
	delete(h.dests, dst)
	h.mu.Unlock()

	sub.Dispose()
	dst.Complete(nil)
	return true
}

// Subscribe attaches a push observer to the same broadcast the destination
// queues receive. The returned Subscription is the caller's cancel handle.
func (h *Hub[T]) Subscribe(observer Observer[T]) (*Subscription[T], error) {
	if h.closed.Load() {
		return nil, ErrHubClosed
	}
	return h.broadcaster.Subscribe(observer)
}

// Close stops the drain goroutine, completes every remaining destination and
// disposes its subscription. Closing a hub is not a stream failure, so a
// destination that has not already seen the source's own terminal state is
// completed gracefully. Close is idempotent, repeat calls report ErrHubClosed.
func (h *Hub[T]) Close() error {
	if h.closed.Swap(true) {
		return ErrHubClosed
	}

	h.cancel()

	// no-op when the source's terminal event already latched; whichever
	// terminal was recorded first is the one every subscriber observed.
	h.broadcaster.OnCompleted()

	h.mu.Lock()
	dests := h.dests
	h.dests = make(map[Queue[T]]*Subscription[T])
	h.mu.Unlock()

	for dst, sub := range dests {
		sub.Dispose()
		dst.Complete(nil)
	}

	h.logger.Log(log.LevelDebug, "hub closed")
	return nil
}

// Done is closed once the drain goroutine has exited.
func (h *Hub[T]) Done() <-chan struct{} {
	return h.drained
}

// drain continuously moves items from the source to the broadcaster until the
// source finishes or the hub is closed. Cancellation exits silently: Close
// owns the synthetic completion and the broadcaster latch keeps the two paths
// from ever producing a second terminal event.
func (h *Hub[T]) drain(ctx context.Context) {
	defer close(h.drained)
	defer func() {
		// a faulting source is a stream failure, not a hub crash
		if r := recover(); r != nil {
			h.logger.Log(log.LevelError, "drain loop panicked", log.Any("panic", r))
			h.broadcaster.OnError(fmt.Errorf("source fault: %v", r))
		}
	}()

	h.logger.Log(log.LevelDebug, "drain loop started")

	for {
		readable, err := h.source.WaitForReadable(ctx)
		if err != nil {
			if ctx.Err() != nil {
				h.logger.Log(log.LevelDebug, "drain loop cancelled")
				return
			}
			// the wait itself failed: a stream failure, not a shutdown
			h.logger.Log(log.LevelError, "source wait failed", log.Error("error", err))
			h.broadcaster.OnError(err)
			return
		}

		if !readable {
			_, cause := h.source.Completed()
			if cause != nil {
				h.logger.Log(log.LevelDebug, "source failed", log.Error("error", cause))
				h.broadcaster.OnError(cause)
			} else {
				h.logger.Log(log.LevelDebug, "source completed")
				h.broadcaster.OnCompleted()
			}
			return
		}

		item, ok := h.source.TryRead()
		if !ok {
			// spurious wake, another reader got there first
			continue
		}

		h.broadcaster.OnNext(item)
	}
}

// queueObserver forwards push notifications onto one destination queue.
// Failed writes are shed per the hub's write policy, never surfaced upstream.
type queueObserver[T any] struct {
	dst    Queue[T]
	policy WritePolicy[T]
	logger log.Logger
}

func (o queueObserver[T]) OnNext(item T) {
	if !o.policy.Apply(o.dst, item) {
		o.logger.Log(log.LevelDebug, "destination rejected item, dropping")
	}
}

func (o queueObserver[T]) OnError(err error) {
	o.dst.Complete(err)
}

func (o queueObserver[T]) OnCompleted() {
	o.dst.Complete(nil)
}
