package coldstream

import "sync"

// bufferState is the shared log, observer set, and delivery queue behind a
// Buffer pair.
type bufferState[T any] struct {
	mu         sync.Mutex
	log        []Event[T]
	observers  bag[Observer[T]]
	pending    []Event[T]
	terminal   Event[T]
	capacity   int
	ended      bool
	delivering bool
}

// Buffer returns a producer and the observer that feeds it, backed by a
// bounded, drop-oldest event log. Events fed into the observer are forwarded
// to every live run of the producer; each new run first replays the suffix of
// history still inside capacity, then the terminal event if one was recorded,
// then receives live events from its join point onward, with no duplicates
// and no gaps in relative order.
//
// Once a terminal event is fed, it is recorded permanently, later events are
// dropped, and runs started afterwards replay the log and the terminal only.
// The feeding observer may be called from any goroutine, including from
// inside a run's own delivery.
func Buffer[T any](capacity int) (Producer[T], Observer[T]) {
	if capacity < 0 {
		capacity = 0
	}

	state := &bufferState[T]{capacity: capacity}

	producer := New(func(observer Observer[T], lifetime *CompositeDisposable) {
		state.mu.Lock()

		var token bagToken

		joined := false

		if !state.ended {
			token = state.observers.insert(observer)
			joined = true
		}

		// Replay happens under the lock, so the join point is atomic with
		// respect to the log: no fed event can slip between history and the
		// live stream.
		for _, event := range state.log {
			observer(event)
		}

		if state.ended {
			observer(state.terminal)
		}

		state.mu.Unlock()

		if joined {
			lifetime.Add(NewDisposable(func() {
				state.mu.Lock()
				state.observers.remove(token)
				state.mu.Unlock()
			}))
		}
	})

	return producer, state.feed
}

// feed enqueues event and, unless a delivery loop is already draining on
// another frame, applies and delivers the queue in arrival order. Each event
// mutates the log and snapshots the observer set in one critical section, but
// is delivered outside the lock: a terminal event tears down its observers'
// runs, and those re-enter this lock to deregister.
func (s *bufferState[T]) feed(event Event[T]) {
	s.mu.Lock()

	if s.ended {
		s.mu.Unlock()
		return
	}

	s.pending = append(s.pending, event)

	if s.delivering {
		s.mu.Unlock()
		return
	}

	s.delivering = true

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]

		if s.ended {
			// a terminal was applied ahead of this event
			continue
		}

		if next.IsTerminal() {
			// The terminal is never evicted, and the observer set is torn
			// down: no further observer can join a finished buffer.
			s.terminal = next
			s.ended = true
		} else {
			s.log = append(s.log, next)

			if over := len(s.log) - s.capacity; over > 0 {
				s.log = s.log[over:]
			}
		}

		observers := s.observers.snapshot()

		if s.ended {
			s.observers = bag[Observer[T]]{}
		}

		s.mu.Unlock()

		for _, observer := range observers {
			observer(next)
		}

		s.mu.Lock()
	}

	s.delivering = false
	s.mu.Unlock()
}
