package coldstream

// Then returns a producer that runs p, discarding its values, and once p has
// completed runs replacement, forwarding its events. Failures and
// interruptions of p are forwarded and prevent replacement from starting.
func Then[T, U any](p Producer[T], replacement Producer[U]) Producer[U] {
	return New(func(observer Observer[U], lifetime *CompositeDisposable) {
		p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
			lifetime.Add(interrupter)

			signal.Observe(func(event Event[T]) {
				switch event.Kind {
				case KindNext:
					// values of the first producer are discarded

				case KindFailed:
					observer(Failed[U](event.Err))

				case KindCompleted:
					replacement.StartWithSignal(func(next *Signal[U], nextInterrupter Disposable) {
						lifetime.Add(nextInterrupter)
						next.Observe(observer)
					})

				case KindInterrupted:
					observer(Interrupted[U]())
				}
			})
		})
	})
}

// Times returns a producer that runs p count times in sequence, restarting on
// each completion and completing after the final run. Every other event is
// forwarded as-is.
func Times[T any](p Producer[T], count int) Producer[T] {
	if count <= 0 {
		return Empty[T]()
	}

	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		slot := NewSerial()
		lifetime.Add(slot)

		var run func(remaining int)

		run = func(remaining int) {
			p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
				slot.Set(interrupter)

				signal.Observe(func(event Event[T]) {
					if event.Kind == KindCompleted && remaining > 1 {
						run(remaining - 1)
						return
					}

					observer(event)
				})
			})
		}

		run(count)
	})
}

// Retry returns a producer that restarts p on failure, up to count times.
// The failure of the final attempt propagates; count retries allow count+1
// attempts in total.
func Retry[T any](p Producer[T], count int) Producer[T] {
	if count <= 0 {
		return p
	}

	return FlatMapError(p, func(error) Producer[T] {
		return Retry(p, count-1)
	})
}

// FlatMapError returns a producer that, when p fails, continues with the
// producer returned by handler for that error. Values, completion, and
// interruption pass through untouched; the replacement's own failure is
// forwarded, not re-handled.
func FlatMapError[T any](p Producer[T], handler func(error) Producer[T]) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		slot := NewSerial()
		lifetime.Add(slot)

		p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
			slot.Set(interrupter)

			signal.Observe(func(event Event[T]) {
				if event.Kind == KindFailed {
					handler(event.Err).StartWithSignal(func(next *Signal[T], nextInterrupter Disposable) {
						slot.Set(nextInterrupter)
						next.Observe(observer)
					})

					return
				}

				observer(event)
			})
		})
	})
}
