package coldstream

import "sync"

// Single starts one run of p and blocks the calling goroutine until the run
// terminates. It returns the run's only value as a success result, or the
// run's error as a failure result with ok=true; ok is false when the run
// produced no value, more than one value (ambiguous), or was interrupted
// before producing one.
//
// Single is one of the four intentionally blocking operations in this
// package. Do not call it from a goroutine the run's own work must execute
// on, or the call will deadlock.
func (p Producer[T]) Single() (Result[T], bool) {
	var (
		mu     sync.Mutex
		result Result[T]
		ok     bool
		seen   int
	)

	gate := make(chan struct{})

	var once sync.Once

	open := func() {
		once.Do(func() {
			close(gate)
		})
	}

	// take(2) bounds the run: a second value is enough to know the result is
	// ambiguous, and completes the stream so the gate opens.
	Take(p, 2).Start(func(event Event[T]) {
		switch event.Kind {
		case KindNext:
			mu.Lock()

			seen++
			switch seen {
			case 1:
				result = Success(event.Value)
				ok = true

			case 2:
				// more than one value: no single result
				result = Result[T]{}
				ok = false
			}

			mu.Unlock()

		case KindFailed:
			mu.Lock()
			result = Failure[T](event.Err)
			ok = true
			mu.Unlock()

			open()

		case KindCompleted, KindInterrupted:
			open()
		}
	})

	<-gate

	mu.Lock()
	defer mu.Unlock()

	return result, ok
}

// First starts one run of p and blocks until it produces its first value or
// terminates. See Single for the blocking caveat.
func (p Producer[T]) First() (Result[T], bool) {
	return Take(p, 1).Single()
}

// Last starts one run of p and blocks until it completes, returning its final
// value. See Single for the blocking caveat.
func (p Producer[T]) Last() (Result[T], bool) {
	return TakeLast(p, 1).Single()
}

// Wait starts one run of p, blocks until it terminates, and returns the run's
// error if it failed. Completion and interruption return nil. See Single for
// the blocking caveat.
func (p Producer[T]) Wait() error {
	result, ok := Then(p, OfValue(struct{}{})).Last()
	if !ok {
		return nil
	}

	_, err := result.Value()

	return err
}
