package coldstream

// Scan returns a producer that emits the running accumulator produced by
// folding every value of p into acc.
func Scan[T, A any](p Producer[T], acc A, fold func(A, T) A) Producer[A] {
	return lift(p, func(signal *Signal[T]) *Signal[A] {
		current := acc

		return transformEach(signal, func(event Event[T], sink Observer[A]) {
			if event.Kind == KindNext {
				current = fold(current, event.Value)
				sink(Next(current))

				return
			}

			sink(terminalAs[A](event))
		})
	})
}

// Reduce returns a producer that folds every value of p into acc and emits
// the final accumulator once p completes. A run without values emits acc
// unchanged.
func Reduce[T, A any](p Producer[T], acc A, fold func(A, T) A) Producer[A] {
	return lift(p, func(signal *Signal[T]) *Signal[A] {
		current := acc

		return transformEach(signal, func(event Event[T], sink Observer[A]) {
			switch event.Kind {
			case KindNext:
				current = fold(current, event.Value)

			case KindCompleted:
				sink(Next(current))
				sink(Completed[A]())

			default:
				sink(terminalAs[A](event))
			}
		})
	})
}

// Collect returns a producer that gathers every value of p into one slice,
// emitted when p completes.
func Collect[T any](p Producer[T]) Producer[[]T] {
	return Reduce(p, []T(nil), func(acc []T, value T) []T {
		return append(acc, value)
	})
}

// TakeLast returns a producer that produces only the last count values of p,
// emitted once p completes. Failures and interruptions drop the held values.
func TakeLast[T any](p Producer[T], count int) Producer[T] {
	if count <= 0 {
		return lift(p, func(signal *Signal[T]) *Signal[T] {
			return transformEach(signal, func(event Event[T], sink Observer[T]) {
				if event.IsTerminal() {
					sink(event)
				}
			})
		})
	}

	return lift(p, func(signal *Signal[T]) *Signal[T] {
		held := []T{}

		return transformEach(signal, func(event Event[T], sink Observer[T]) {
			switch event.Kind {
			case KindNext:
				held = append(held, event.Value)
				if len(held) > count {
					held = held[1:]
				}

			case KindCompleted:
				for _, value := range held {
					sink(Next(value))
				}

				sink(Completed[T]())

			default:
				sink(event)
			}
		})
	})
}
