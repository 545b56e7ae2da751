package coldstream

import (
	"fmt"
	"sync/atomic"
)

// FlattenStrategy selects how a producer of producers collapses into one
// stream.
type FlattenStrategy uint8

const (
	// StrategyMerge starts every inner producer as it arrives and forwards
	// values in whatever order they are produced. The aggregate completes
	// once the outer producer and every started inner producer have
	// completed.
	StrategyMerge FlattenStrategy = iota

	// StrategyConcat runs inner producers one at a time, in arrival order.
	// The aggregate completes once the outer producer has completed and
	// every queued inner producer has run to completion.
	StrategyConcat

	// StrategyLatest forwards only the most recently arrived inner producer,
	// interrupting its predecessor when a new one arrives.
	StrategyLatest
)

// Flatten collapses a producer of producers into one producer using strategy.
// Failures of the outer producer or of any inner producer are forwarded
// immediately, bypassing queueing and completion bookkeeping.
func Flatten[T any](p Producer[Producer[T]], strategy FlattenStrategy) Producer[T] {
	switch strategy {
	case StrategyMerge:
		return flattenMerge(p)

	case StrategyConcat:
		return flattenConcat(p)

	case StrategyLatest:
		return flattenLatest(p)

	default:
		panic(fmt.Sprintf("unknown flatten strategy: %d", strategy))
	}
}

// FlatMap maps every value of p to a producer and flattens the result using
// strategy.
func FlatMap[T, U any](p Producer[T], strategy FlattenStrategy, mapp func(T) Producer[U]) Producer[U] {
	return Flatten(Map(p, mapp), strategy)
}

// Merge returns a producer running every given producer concurrently,
// forwarding values as they are produced.
func Merge[T any](producers ...Producer[T]) Producer[T] {
	return Flatten(OfSequence(producers), StrategyMerge)
}

// Concat returns a producer running every given producer in sequence, each
// starting once its predecessor has completed.
func Concat[T any](producers ...Producer[T]) Producer[T] {
	return Flatten(OfSequence(producers), StrategyConcat)
}

func flattenMerge[T any](p Producer[Producer[T]]) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		// Seeded at 1 for the outer producer's own leg; the aggregate
		// completes when the outer and every started inner have settled.
		// Decrement-and-check is a single atomic op, so an outer completion
		// racing an inner completion cannot double-count.
		inFlight := new(atomic.Int32)
		inFlight.Store(1)

		settle := func() {
			if inFlight.Add(-1) == 0 {
				observer(Completed[T]())
			}
		}

		p.StartWithSignal(func(outer *Signal[Producer[T]], interrupter Disposable) {
			lifetime.Add(interrupter)

			outer.Observe(func(event Event[Producer[T]]) {
				switch event.Kind {
				case KindNext:
					inFlight.Add(1)

					event.Value.StartWithSignal(func(inner *Signal[T], innerInterrupter Disposable) {
						token := lifetime.Add(innerInterrupter)

						inner.Observe(func(innerEvent Event[T]) {
							switch innerEvent.Kind {
							case KindNext, KindFailed:
								observer(innerEvent)

							case KindCompleted, KindInterrupted:
								lifetime.Remove(token)
								settle()
							}
						})
					})

				case KindFailed:
					observer(Failed[T](event.Err))

				case KindCompleted:
					settle()

				case KindInterrupted:
					observer(Interrupted[T]())
				}
			})
		})
	})
}

// concatState is the per-run state of a concat flatten: an ordered queue of
// pending inner producers, the head of which is always the active one.
type concatState[T any] struct {
	queue    cell[[]Producer[T]]
	active   *SerialDisposable
	observer Observer[T]
}

// enqueue appends inner to the queue and starts it immediately if the queue
// was empty.
func (s *concatState[T]) enqueue(inner Producer[T]) {
	startNow := false

	s.queue.modify(func(queue *[]Producer[T]) {
		*queue = append(*queue, inner)
		startNow = len(*queue) == 1
	})

	if startNow {
		s.startHead(inner)
	}
}

// dequeue removes the finished head and starts the next producer, if any.
func (s *concatState[T]) dequeue() {
	var next *Producer[T]

	s.queue.modify(func(queue *[]Producer[T]) {
		*queue = (*queue)[1:]

		if len(*queue) > 0 {
			next = &(*queue)[0]
		}
	})

	if next != nil {
		s.startHead(*next)
	}
}

func (s *concatState[T]) startHead(inner Producer[T]) {
	inner.StartWithSignal(func(signal *Signal[T], interrupter Disposable) {
		s.active.Set(interrupter)

		signal.Observe(func(event Event[T]) {
			switch event.Kind {
			case KindNext, KindFailed:
				s.observer(event)

			case KindCompleted, KindInterrupted:
				s.dequeue()
			}
		})
	})
}

func flattenConcat[T any](p Producer[Producer[T]]) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		state := &concatState[T]{active: NewSerial(), observer: observer}
		lifetime.Add(state.active)

		p.StartWithSignal(func(outer *Signal[Producer[T]], interrupter Disposable) {
			lifetime.Add(interrupter)

			outer.Observe(func(event Event[Producer[T]]) {
				switch event.Kind {
				case KindNext:
					state.enqueue(event.Value)

				case KindFailed:
					// Failures bypass the queue.
					observer(Failed[T](event.Err))

				case KindCompleted:
					// Completion joins the queue as a zero-work producer, so
					// the aggregate only completes after every previously
					// queued inner producer has run.
					state.enqueue(New(func(Observer[T], *CompositeDisposable) {
						observer(Completed[T]())
					}))

				case KindInterrupted:
					observer(Interrupted[T]())
				}
			})
		})
	})
}

// switchState is the per-run state of a latest flatten. generation counts
// inner arrivals; each inner run's terminal handling captures the generation
// it was started under, so the Interrupted of a superseded run (which may be
// delivered late, from another goroutine's drain) is never mistaken for the
// current inner terminating.
type switchState struct {
	outerDone  bool
	innerDone  bool
	generation int
}

func flattenLatest[T any](p Producer[Producer[T]]) Producer[T] {
	return New(func(observer Observer[T], lifetime *CompositeDisposable) {
		state := &cell[switchState]{value: switchState{innerDone: true}}
		slot := NewSerial()
		lifetime.Add(slot)

		p.StartWithSignal(func(outer *Signal[Producer[T]], interrupter Disposable) {
			lifetime.Add(interrupter)

			outer.Observe(func(event Event[Producer[T]]) {
				switch event.Kind {
				case KindNext:
					var generation int

					state.modify(func(s *switchState) {
						s.generation++
						s.innerDone = false
						generation = s.generation
					})

					event.Value.StartWithSignal(func(inner *Signal[T], innerInterrupter Disposable) {
						// Interrupts the superseded run; its terminal carries
						// a stale generation and is ignored below.
						slot.Set(innerInterrupter)

						inner.Observe(func(innerEvent Event[T]) {
							switch innerEvent.Kind {
							case KindNext, KindFailed:
								observer(innerEvent)

							case KindCompleted, KindInterrupted:
								complete := false

								state.modify(func(s *switchState) {
									if generation != s.generation || s.innerDone {
										return
									}

									s.innerDone = true
									complete = s.outerDone
								})

								if complete {
									observer(Completed[T]())
								}
							}
						})
					})

				case KindFailed:
					observer(Failed[T](event.Err))

				case KindCompleted:
					complete := false

					state.modify(func(s *switchState) {
						s.outerDone = true
						complete = s.innerDone
					})

					if complete {
						observer(Completed[T]())
					}

				case KindInterrupted:
					observer(Interrupted[T]())
				}
			})
		})
	})
}
