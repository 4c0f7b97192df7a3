package multicom

import (
	"sync"

	"github.com/ambitiousfew/rxd/log"
	"golang.org/x/exp/maps"
)

// Broadcaster fans one logical stream out to any number of observers, each
// independently cancellable through its Subscription. Observers registered
// after the stream ended receive the stored terminal event immediately.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	done   bool
	err    error // terminal error, nil once done means graceful completion
	logger log.Logger
}

// NewBroadcaster creates an empty broadcaster ready to accept subscriptions.
func NewBroadcaster[T any](opts ...BroadcasterOption[T]) *Broadcaster[T] {
	b := &Broadcaster[T]{
		subs:   make(map[*Subscription[T]]struct{}),
		logger: noopLogger{},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers an observer and returns its Subscription handle.
// A nil observer is a usage error. If the stream already ended, the stored
// terminal event is delivered to the observer before Subscribe returns and
// the returned Subscription is already terminated.
func (b *Broadcaster[T]) Subscribe(observer Observer[T]) (*Subscription[T], error) {
	if observer == nil {
		return nil, ErrNilObserver
	}

	b.mu.Lock()
	if b.done {
		err := b.err
		b.mu.Unlock()

		sub := newSubscription(observer, b.logger, nil)
		sub.terminal(err)
		return sub, nil
	}

	sub := newSubscription(observer, b.logger, b.unsubscribe)
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub, nil
}

// OnNext delivers one item to every live subscription. Delivery iterates a
// snapshot of the live set so observers may subscribe or dispose reentrantly,
// and no lock is held across observer callbacks.
func (b *Broadcaster[T]) OnNext(item T) {
	b.mu.RLock()
	if b.done {
		b.mu.RUnlock()
		return
	}
	subs := maps.Keys(b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.next(item)
	}
}

// OnError ends the stream as failed. Only the first terminal call, by either
// OnError or OnCompleted, takes effect.
func (b *Broadcaster[T]) OnError(err error) {
	if err == nil {
		// a nil failure is a graceful completion
		b.terminate(nil)
		return
	}
	b.terminate(err)
}

// OnCompleted ends the stream gracefully. Only the first terminal call takes effect.
func (b *Broadcaster[T]) OnCompleted() {
	b.terminate(nil)
}

// Terminated reports whether the stream ended and with which error.
func (b *Broadcaster[T]) Terminated() (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.done, b.err
}

func (b *Broadcaster[T]) terminate(err error) {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}
	b.done = true
	b.err = err

	subs := maps.Keys(b.subs)
	// nothing is live after the terminal event
	b.subs = make(map[*Subscription[T]]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		sub.terminal(err)
	}
}

// unsubscribe drops a subscription from the live set. Removing one that is
// absent is a harmless no-op.
func (b *Broadcaster[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}
