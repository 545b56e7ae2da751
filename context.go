package coldstream

import "context"

// StartContext begins a new run of the producer, cancelling it when ctx is
// done. The returned handle cancels the run directly and releases the
// context watcher; dispose it when the run is no longer needed, or the
// watcher goroutine lives until ctx is done.
func (p Producer[T]) StartContext(ctx context.Context, observer Observer[T]) Disposable {
	handle := p.Start(observer)

	if ctx.Done() == nil {
		return handle
	}

	stop := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			handle.Dispose()

		case <-stop:
		}
	}()

	return NewDisposable(func() {
		close(stop)
		handle.Dispose()
	})
}
