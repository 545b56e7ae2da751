package coldstream

import (
	"sync"

	"golang.org/x/exp/slices"
)

type pair[A, B any] struct {
	first  A
	second B
}

// CombineLatestWith returns a producer that combines the latest values of a
// and b whenever either produces one, starting once both have produced at
// least one value. It completes when both inputs have completed; failures and
// interruptions of either input are forwarded immediately.
func CombineLatestWith[A, B, R any](a Producer[A], b Producer[B], combine func(A, B) R) Producer[R] {
	return lift2(a, b, func(signalA *Signal[A], signalB *Signal[B]) *Signal[R] {
		out, sink := Pipe[R]()

		var state struct {
			sync.Mutex
			latestA A
			latestB B
			hasA    bool
			hasB    bool
			doneA   bool
			doneB   bool
		}

		signalA.Observe(func(event Event[A]) {
			switch event.Kind {
			case KindNext:
				state.Lock()
				state.latestA = event.Value
				state.hasA = true

				var combined Event[R]

				emit := state.hasB
				if emit {
					combined = Next(combine(state.latestA, state.latestB))
				}
				state.Unlock()

				if emit {
					sink(combined)
				}

			case KindCompleted:
				state.Lock()
				state.doneA = true
				complete := state.doneB
				state.Unlock()

				if complete {
					sink(Completed[R]())
				}

			default:
				sink(terminalAs[R](event))
			}
		})

		signalB.Observe(func(event Event[B]) {
			switch event.Kind {
			case KindNext:
				state.Lock()
				state.latestB = event.Value
				state.hasB = true

				var combined Event[R]

				emit := state.hasA
				if emit {
					combined = Next(combine(state.latestA, state.latestB))
				}
				state.Unlock()

				if emit {
					sink(combined)
				}

			case KindCompleted:
				state.Lock()
				state.doneB = true
				complete := state.doneA
				state.Unlock()

				if complete {
					sink(Completed[R]())
				}

			default:
				sink(terminalAs[R](event))
			}
		})

		return out
	})
}

// CombineLatest3 combines the latest values of three producers.
func CombineLatest3[A, B, C, R any](a Producer[A], b Producer[B], c Producer[C], combine func(A, B, C) R) Producer[R] {
	ab := CombineLatestWith(a, b, func(first A, second B) pair[A, B] {
		return pair[A, B]{first: first, second: second}
	})

	return CombineLatestWith(ab, c, func(p pair[A, B], third C) R {
		return combine(p.first, p.second, third)
	})
}

// CombineLatestAll folds CombineLatestWith over producers of one value type,
// emitting a slice of the latest values. An empty input completes without a
// value.
func CombineLatestAll[T any](producers []Producer[T]) Producer[[]T] {
	if len(producers) == 0 {
		return Empty[[]T]()
	}

	acc := Map(producers[0], func(value T) []T {
		return []T{value}
	})

	for _, p := range producers[1:] {
		acc = CombineLatestWith(acc, p, func(values []T, value T) []T {
			return append(slices.Clone(values), value)
		})
	}

	return acc
}

// ZipWith returns a producer that pairs the n-th value of a with the n-th
// value of b, in order. It completes once either input has completed and its
// pending values are exhausted.
func ZipWith[A, B, R any](a Producer[A], b Producer[B], combine func(A, B) R) Producer[R] {
	return lift2(a, b, func(signalA *Signal[A], signalB *Signal[B]) *Signal[R] {
		out, sink := Pipe[R]()

		var state struct {
			sync.Mutex
			pendingA []A
			pendingB []B
			doneA    bool
			doneB    bool
		}

		// step pops one matched pair, if available, and reports whether the
		// zip is exhausted afterwards. Called under the state lock.
		step := func() (Event[R], bool, bool) {
			var emit Event[R]

			ok := false

			if len(state.pendingA) > 0 && len(state.pendingB) > 0 {
				valueA := state.pendingA[0]
				valueB := state.pendingB[0]
				state.pendingA = state.pendingA[1:]
				state.pendingB = state.pendingB[1:]

				emit = Next(combine(valueA, valueB))
				ok = true
			}

			exhausted := (state.doneA && len(state.pendingA) == 0) ||
				(state.doneB && len(state.pendingB) == 0)

			return emit, ok, exhausted
		}

		forward := func(emit Event[R], ok bool, exhausted bool) {
			if ok {
				sink(emit)
			}

			if exhausted {
				sink(Completed[R]())
			}
		}

		signalA.Observe(func(event Event[A]) {
			switch event.Kind {
			case KindNext:
				state.Lock()
				state.pendingA = append(state.pendingA, event.Value)
				emit, ok, exhausted := step()
				state.Unlock()

				forward(emit, ok, exhausted)

			case KindCompleted:
				state.Lock()
				state.doneA = true
				exhausted := len(state.pendingA) == 0
				state.Unlock()

				if exhausted {
					sink(Completed[R]())
				}

			default:
				sink(terminalAs[R](event))
			}
		})

		signalB.Observe(func(event Event[B]) {
			switch event.Kind {
			case KindNext:
				state.Lock()
				state.pendingB = append(state.pendingB, event.Value)
				emit, ok, exhausted := step()
				state.Unlock()

				forward(emit, ok, exhausted)

			case KindCompleted:
				state.Lock()
				state.doneB = true
				exhausted := len(state.pendingB) == 0
				state.Unlock()

				if exhausted {
					sink(Completed[R]())
				}

			default:
				sink(terminalAs[R](event))
			}
		})

		return out
	})
}

// Zip3 pairs the values of three producers positionally.
func Zip3[A, B, C, R any](a Producer[A], b Producer[B], c Producer[C], combine func(A, B, C) R) Producer[R] {
	ab := ZipWith(a, b, func(first A, second B) pair[A, B] {
		return pair[A, B]{first: first, second: second}
	})

	return ZipWith(ab, c, func(p pair[A, B], third C) R {
		return combine(p.first, p.second, third)
	})
}

// ZipAll folds ZipWith over producers of one value type, emitting a slice per
// matched position. An empty input completes without a value.
func ZipAll[T any](producers []Producer[T]) Producer[[]T] {
	if len(producers) == 0 {
		return Empty[[]T]()
	}

	acc := Map(producers[0], func(value T) []T {
		return []T{value}
	})

	for _, p := range producers[1:] {
		acc = ZipWith(acc, p, func(values []T, value T) []T {
			return append(slices.Clone(values), value)
		})
	}

	return acc
}
