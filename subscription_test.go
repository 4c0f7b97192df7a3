package multicom

import (
	"errors"
	"testing"
)

func TestSubscription_DisposeUnregistersOnce(t *testing.T) {
	var unregistered int
	sub := newSubscription[int](&recordingObserver[int]{}, noopLogger{}, func(*Subscription[int]) {
		unregistered++
	})

	sub.Dispose()
	sub.Dispose()
	sub.Dispose()

	if unregistered != 1 {
		t.Fatalf("unregister calls: want 1, got %d", unregistered)
	}
	if !sub.Disposed() {
		t.Fatalf("expected subscription to report disposed")
	}
}

func TestSubscription_DisposeDeliversNoTerminal(t *testing.T) {
	obs := &recordingObserver[int]{}
	sub := newSubscription[int](obs, noopLogger{}, nil)

	sub.Dispose()
	sub.terminal(nil)
	sub.next(1)

	if got := obs.terminals(); got != 0 {
		t.Fatalf("terminal events after dispose: want 0, got %d", got)
	}
	if len(obs.items) != 0 {
		t.Fatalf("items after dispose: want none, got %v", obs.items)
	}
}

func TestSubscription_TerminalAtMostOnce(t *testing.T) {
	obs := &recordingObserver[int]{}
	sub := newSubscription[int](obs, noopLogger{}, nil)

	sub.terminal(nil)
	sub.terminal(errors.New("second terminal"))

	if obs.completed != 1 || len(obs.errs) != 0 {
		t.Fatalf("want exactly one completion, got %d completions %d errors", obs.completed, len(obs.errs))
	}
}

func TestSubscription_NoNextAfterTerminal(t *testing.T) {
	obs := &recordingObserver[int]{}
	sub := newSubscription[int](obs, noopLogger{}, nil)

	sub.next(1)
	sub.terminal(nil)
	sub.next(2)

	if len(obs.items) != 1 || obs.items[0] != 1 {
		t.Fatalf("items: want [1], got %v", obs.items)
	}
}

func TestSubscription_TerminalWithoutDispose(t *testing.T) {
	obs := &recordingObserver[int]{}
	sub := newSubscription[int](obs, noopLogger{}, nil)

	sub.terminal(nil)

	if sub.Disposed() {
		t.Fatalf("terminal delivery must not mark the subscription disposed")
	}
	if !sub.Terminated() {
		t.Fatalf("expected subscription to report terminated")
	}
}
