package multicom

// Observer receives the broadcast stream as push notifications.
// OnNext is called once per forwarded item, then exactly one of
// OnError or OnCompleted ends the stream. Implementations must not
// assume which goroutine invokes them.
type Observer[T any] interface {
	OnNext(item T)
	OnError(err error)
	OnCompleted()
}

// ObserverFuncs adapts a triple of callbacks into an Observer.
// Any nil callback is skipped.
type ObserverFuncs[T any] struct {
	Next      func(item T)
	Error     func(err error)
	Completed func()
}

func (o ObserverFuncs[T]) OnNext(item T) {
	if o.Next != nil {
		o.Next(item)
	}
}

func (o ObserverFuncs[T]) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

func (o ObserverFuncs[T]) OnCompleted() {
	if o.Completed != nil {
		o.Completed()
	}
}
