package multicom

// WritePolicy decides what a destination write does when the destination
// cannot take the item right away. Writes are always non-blocking: a policy
// may shed load but never suspend the delivery path.
type WritePolicy[T any] interface {
	Apply(dst Queue[T], item T) bool
}

// DropNewest drops the incoming item when the destination is full.
type DropNewest[T any] struct{}

func (DropNewest[T]) Apply(dst Queue[T], item T) bool {
	return dst.TryWrite(item)
}

// DropOldest pops the oldest buffered item to make room, then retries once.
type DropOldest[T any] struct{}

func (DropOldest[T]) Apply(dst Queue[T], item T) bool {
	if dst.TryWrite(item) {
		return true
	}

	dst.TryRead() // shed one
	return dst.TryWrite(item)
}
