package coldstream

import "time"

// transformEach derives a new signal by feeding every upstream event through
// step, which pushes zero or more events into the derived signal.
func transformEach[T, U any](signal *Signal[T], step func(Event[T], Observer[U])) *Signal[U] {
	out, sink := Pipe[U]()

	signal.Observe(func(event Event[T]) {
		step(event, sink)
	})

	return out
}

// Map returns a producer that applies mapp to every value produced by p.
func Map[T, U any](p Producer[T], mapp func(T) U) Producer[U] {
	return lift(p, func(signal *Signal[T]) *Signal[U] {
		return transformEach(signal, func(event Event[T], sink Observer[U]) {
			if event.Kind == KindNext {
				sink(Next(mapp(event.Value)))
				return
			}

			sink(terminalAs[U](event))
		})
	})
}

// MapError returns a producer that applies mapp to the error of a failed run.
func MapError[T any](p Producer[T], mapp func(error) error) Producer[T] {
	return lift(p, func(signal *Signal[T]) *Signal[T] {
		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			if event.Kind == KindFailed {
				sink(Failed[T](mapp(event.Err)))
				return
			}

			sink(event)
		})
	})
}

// Filter returns a producer that only produces the values for which keep
// returns true.
func Filter[T any](p Producer[T], keep func(T) bool) Producer[T] {
	return lift(p, func(signal *Signal[T]) *Signal[T] {
		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			if event.Kind == KindNext && !keep(event.Value) {
				return
			}

			sink(event)
		})
	})
}

// Take returns a producer that produces at most count values of p, then
// completes. Completing cancels the rest of the upstream run.
func Take[T any](p Producer[T], count int) Producer[T] {
	if count <= 0 {
		return Empty[T]()
	}

	return lift(p, func(signal *Signal[T]) *Signal[T] {
		taken := 0

		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			if event.Kind == KindNext {
				taken++
				sink(event)

				if taken == count {
					sink(Completed[T]())
				}

				return
			}

			sink(event)
		})
	})
}

// TakeWhile returns a producer that produces values while keep returns true,
// then completes.
func TakeWhile[T any](p Producer[T], keep func(T) bool) Producer[T] {
	return lift(p, func(signal *Signal[T]) *Signal[T] {
		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			if event.Kind == KindNext && !keep(event.Value) {
				sink(Completed[T]())
				return
			}

			sink(event)
		})
	})
}

// Skip returns a producer that produces the same values as p, skipping the
// first count.
func Skip[T any](p Producer[T], count int) Producer[T] {
	if count <= 0 {
		return p
	}

	return lift(p, func(signal *Signal[T]) *Signal[T] {
		skipped := 0

		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			if event.Kind == KindNext && skipped < count {
				skipped++
				return
			}

			sink(event)
		})
	})
}

// SkipWhile returns a producer that drops values while keep returns true,
// then produces every remaining value.
func SkipWhile[T any](p Producer[T], keep func(T) bool) Producer[T] {
	return lift(p, func(signal *Signal[T]) *Signal[T] {
		skipping := true

		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			if event.Kind == KindNext && skipping {
				if keep(event.Value) {
					return
				}

				skipping = false
			}

			sink(event)
		})
	})
}

// Attempt returns a producer that runs op for every value, failing the stream
// on the first error op returns.
func Attempt[T any](p Producer[T], op func(T) error) Producer[T] {
	return AttemptMap(p, func(value T) (T, error) {
		return value, op(value)
	})
}

// AttemptMap returns a producer that maps every value through the fallible
// op, converting a returned error into stream failure.
func AttemptMap[T, U any](p Producer[T], op func(T) (U, error)) Producer[U] {
	return lift(p, func(signal *Signal[T]) *Signal[U] {
		return transformEach(signal, func(event Event[T], sink Observer[U]) {
			if event.Kind == KindNext {
				mapped, err := op(event.Value)
				if err != nil {
					sink(Failed[U](err))
					return
				}

				sink(Next(mapped))

				return
			}

			sink(terminalAs[U](event))
		})
	})
}

// Delay returns a producer that delays every value and the completion by
// delay on scheduler. Failures and interruptions are forwarded immediately.
func Delay[T any](p Producer[T], delay time.Duration, scheduler DateScheduler) Producer[T] {
	return lift(p, func(signal *Signal[T]) *Signal[T] {
		out, sink := Pipe[T]()

		// Delayed events wait in a FIFO popped by their timers, so arrival
		// order survives even when timers with equal deadlines fire out of
		// order.
		pending := &cell[[]Event[T]]{}

		signal.Observe(func(event Event[T]) {
			if event.Kind == KindFailed || event.Kind == KindInterrupted {
				sink(event)
				return
			}

			pending.modify(func(queue *[]Event[T]) {
				*queue = append(*queue, event)
			})

			scheduler.ScheduleAfter(delay, func() {
				var head Event[T]

				popped := false

				pending.modify(func(queue *[]Event[T]) {
					if len(*queue) > 0 {
						head = (*queue)[0]
						*queue = (*queue)[1:]
						popped = true
					}
				})

				if popped {
					sink(head)
				}
			})
		})

		return out
	})
}

// ObserveOn returns a producer that forwards every event on scheduler.
func ObserveOn[T any](p Producer[T], scheduler Scheduler) Producer[T] {
	return lift(p, func(signal *Signal[T]) *Signal[T] {
		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			scheduler.Schedule(func() {
				sink(event)
			})
		})
	})
}
