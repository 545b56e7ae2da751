package coldstream

// Result is the outcome of a fallible operation: a value or an error.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a successful result carrying value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure returns a failed result carrying err.
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsSuccess reports whether the result is a success.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the carried value and error.
func (r Result[T]) Value() (T, error) {
	return r.value, r.err
}

// Match dispatches on the result's variant. Nil callbacks are skipped.
func (r Result[T]) Match(success func(T), failure func(error)) {
	if r.err != nil {
		if failure != nil {
			failure(r.err)
		}

		return
	}

	if success != nil {
		success(r.value)
	}
}
