package coldstream

import "fmt"

// EventKind identifies the variant of an Event.
type EventKind uint8

const (
	// KindNext carries a value produced by the stream.
	KindNext EventKind = iota

	// KindFailed ends the stream with an error.
	KindFailed

	// KindCompleted ends the stream successfully.
	KindCompleted

	// KindInterrupted ends the stream because its run was cancelled.
	KindInterrupted
)

// Event is a single occurrence in a stream: a value, a failure, a completion,
// or an interruption. A started stream delivers at most one of the three
// terminal variants, and nothing after it.
type Event[T any] struct {
	// Value is set for KindNext events.
	Value T

	// Err is set for KindFailed events.
	Err error

	// Kind is the variant tag.
	Kind EventKind
}

// Next returns an event carrying value.
func Next[T any](value T) Event[T] {
	return Event[T]{Kind: KindNext, Value: value}
}

// Failed returns a terminal event carrying err.
func Failed[T any](err error) Event[T] {
	return Event[T]{Kind: KindFailed, Err: err}
}

// Completed returns the terminal event of a successful stream.
func Completed[T any]() Event[T] {
	return Event[T]{Kind: KindCompleted}
}

// Interrupted returns the terminal event of a cancelled stream.
func Interrupted[T any]() Event[T] {
	return Event[T]{Kind: KindInterrupted}
}

// IsTerminal returns true for the failed, completed, and interrupted variants.
func (e Event[T]) IsTerminal() bool {
	return e.Kind != KindNext
}

// String implements fmt.Stringer.
func (e Event[T]) String() string {
	switch e.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", e.Value)

	case KindFailed:
		return fmt.Sprintf("failed(%v)", e.Err)

	case KindCompleted:
		return "completed"

	case KindInterrupted:
		return "interrupted"

	default:
		return fmt.Sprintf("unknown(%d)", e.Kind)
	}
}

// terminalAs re-tags a terminal event for a stream of a different value type.
func terminalAs[U, T any](event Event[T]) Event[U] {
	switch event.Kind {
	case KindFailed:
		return Failed[U](event.Err)

	case KindInterrupted:
		return Interrupted[U]()

	default:
		return Completed[U]()
	}
}
