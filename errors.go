package multicom

const (
	// ErrNilObserver is returned when subscribing a nil observer.
	ErrNilObserver Error = Error("nil observer provided")
	// ErrNilSource is returned when creating a hub without a source queue.
	ErrNilSource Error = Error("nil source queue provided")
	// ErrHubClosed is returned by hub operations after Close.
	ErrHubClosed Error = Error("hub is closed")
)

type Error string

func (e Error) Error() string {
	return string(e)
}
