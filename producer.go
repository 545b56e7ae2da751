package coldstream

// Producer is a cold, restartable factory for an event stream. A Producer
// value performs no work and owns no resources; each start call materializes
// an independent Signal and disposal tree for the lifetime of that run.
// Producers are immutable and safe to share and start from any goroutine, any
// number of times.
type Producer[T any] struct {
	onStart func(Observer[T], *CompositeDisposable)
}

// New returns a producer that invokes onStart once per start call. onStart
// receives the observer to feed events into and the composite disposable
// bounding the run: work registered with it is released when the run
// terminates or is cancelled.
func New[T any](onStart func(observer Observer[T], lifetime *CompositeDisposable)) Producer[T] {
	return Producer[T]{onStart: onStart}
}

// OfValue returns a producer that emits value and completes.
func OfValue[T any](value T) Producer[T] {
	return New(func(observer Observer[T], _ *CompositeDisposable) {
		observer(Next(value))
		observer(Completed[T]())
	})
}

// OfError returns a producer that immediately fails with err.
func OfError[T any](err error) Producer[T] {
	return New(func(observer Observer[T], _ *CompositeDisposable) {
		observer(Failed[T](err))
	})
}

// OfResult returns a producer that emits the result's value and completes,
// or fails with the result's error.
func OfResult[T any](result Result[T]) Producer[T] {
	value, err := result.Value()
	if err != nil {
		return OfError[T](err)
	}

	return OfValue(value)
}

// OfSequence returns a producer that emits every element of elements, in
// order, and completes. Cancelling the run stops the iteration between
// elements.
func OfSequence[T any](elements []T) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		for _, element := range elements {
			if lifetime.Disposed() {
				return
			}

			observer(Next(element))
		}

		observer(Completed[T]())
	})
}

// Empty returns a producer that completes without emitting a value.
func Empty[T any]() Producer[T] {
	return New(func(observer Observer[T], _ *CompositeDisposable) {
		observer(Completed[T]())
	})
}

// Never returns a producer that emits nothing and never terminates on its own.
func Never[T any]() Producer[T] {
	return New(func(Observer[T], *CompositeDisposable) {})
}

// StartWithSignal materializes one run of the producer. setup receives the
// run's signal and a handle that interrupts the run when disposed; observers
// attached inside setup see the run's full event history. If setup disposes
// the handle synchronously, the producer's work never starts.
//
// The run's disposal tree is released from the signal's delivery path, once
// the terminal event has reached every observer. Observers never see teardown
// race ahead of the terminal, even when it is sent from a goroutine other
// than the one draining the signal.
func (p Producer[T]) StartWithSignal(setup func(signal *Signal[T], interrupter Disposable)) {
	signal, sink := Pipe[T]()
	root := NewComposite()

	signal.core.onTerminal = root.Dispose

	interrupter := NewDisposable(func() {
		sink(Interrupted[T]())
	})

	setup(signal, interrupter)

	if interrupter.Disposed() {
		return
	}

	p.onStart(sink, root)
}

// Start begins a new run of the producer, attaching observer to its stream,
// and returns a handle that cancels the run. Cancelling sends exactly one
// Interrupted event to observer and releases the run's resources.
func (p Producer[T]) Start(observer Observer[T]) Disposable {
	var handle Disposable

	p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
		signal.Observe(observer)
		handle = interrupter
	})

	return handle
}

// lift re-hosts a signal-level transform at the producer level: starting the
// lifted producer starts the receiver, registers its interrupter with the
// outer lifetime, and observes the transformed signal. Every non-flattening
// operator is promoted this way, which preserves event ordering and forwards
// disposal through the chain.
func lift[T, U any](p Producer[T], transform func(*Signal[T]) *Signal[U]) Producer[U] {
	return New(func(observer Observer[U], lifetime *CompositeDisposable) {
		p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
			lifetime.Add(interrupter)
			transform(signal).Observe(observer)
		})
	})
}

// lift2 is the binary form of lift: both producers are started into the same
// outer lifetime, then the binary signal transform is applied.
func lift2[A, B, U any](a Producer[A], b Producer[B], transform func(*Signal[A], *Signal[B]) *Signal[U]) Producer[U] {
	return New(func(observer Observer[U], lifetime *CompositeDisposable) {
		b.StartWithSignal(func(signalB *Signal[B], interrupterB Disposable) {
			lifetime.Add(interrupterB)

			a.StartWithSignal(func(signalA *Signal[A], interrupterA Disposable) {
				lifetime.Add(interrupterA)
				transform(signalA, signalB).Observe(observer)
			})
		})
	})
}

// Hooks taps the lifecycle and events of each run of a producer.
// Nil fields are skipped.
type Hooks[T any] struct {
	// Starting runs before the run's work begins.
	Starting func()

	// Started runs after the run's stream is set up.
	Started func()

	// Event runs for every event, before it is forwarded.
	Event func(Event[T])

	// Value runs for every KindNext event.
	Value func(T)

	// Failed runs for a KindFailed event.
	Failed func(error)

	// Completed runs for a KindCompleted event.
	Completed func()

	// Interrupted runs for a KindInterrupted event.
	Interrupted func()

	// Disposed runs when the run's disposal tree is released.
	Disposed func()
}

// On returns a producer that invokes hooks on each of its runs. Event hooks
// fire before the event is forwarded downstream.
func On[T any](p Producer[T], hooks Hooks[T]) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		if hooks.Starting != nil {
			hooks.Starting()
		}

		if hooks.Disposed != nil {
			lifetime.Add(NewDisposable(hooks.Disposed))
		}

		p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
			lifetime.Add(interrupter)

			signal.Observe(func(event Event[T]) {
				if hooks.Event != nil {
					hooks.Event(event)
				}

				switch event.Kind {
				case KindNext:
					if hooks.Value != nil {
						hooks.Value(event.Value)
					}

				case KindFailed:
					if hooks.Failed != nil {
						hooks.Failed(event.Err)
					}

				case KindCompleted:
					if hooks.Completed != nil {
						hooks.Completed()
					}

				case KindInterrupted:
					if hooks.Interrupted != nil {
						hooks.Interrupted()
					}
				}

				observer(event)
			})

			// The run's work begins only after this setup returns, so the
			// hook observes a fully wired but not yet producing stream.
			if hooks.Started != nil {
				hooks.Started()
			}
		})
	})
}

// StartOn returns a producer whose act of starting is deferred onto
// scheduler. Only the start is rescheduled; events are delivered on whatever
// goroutine the run's work uses. Cancelling before the deferred start
// executes prevents the start entirely.
func StartOn[T any](p Producer[T], scheduler Scheduler) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		lifetime.Add(scheduler.Schedule(func() {
			p.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
				lifetime.Add(interrupter)
				signal.Observe(observer)
			})
		}))
	})
}
