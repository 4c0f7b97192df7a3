package multicom

import "github.com/ambitiousfew/rxd/log"

// Option configures a Hub at construction time.
type Option[T any] func(*Hub[T])

// WithLogger attaches a structured logger to the hub and its broadcaster.
// Without it the hub stays silent.
func WithLogger[T any](logger log.Logger) Option[T] {
	return func(h *Hub[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithWritePolicy sets how destination writes behave when a destination is
// full. The default drops the incoming item.
func WithWritePolicy[T any](policy WritePolicy[T]) Option[T] {
	return func(h *Hub[T]) {
		if policy != nil {
			h.policy = policy
		}
	}
}

// BroadcasterOption configures a standalone Broadcaster.
type BroadcasterOption[T any] func(*Broadcaster[T])

// WithBroadcasterLogger attaches a structured logger to a broadcaster.
func WithBroadcasterLogger[T any](logger log.Logger) BroadcasterOption[T] {
	return func(b *Broadcaster[T]) {
		if logger != nil {
			b.logger = logger
		}
	}
}
