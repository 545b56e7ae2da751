package coldstream

import "sync"

// Observer consumes the events of one started stream.
type Observer[T any] func(Event[T])

// Signal is a hot, multicast, push-based stream of events: the realization of
// one run of a Producer. Any number of observers may attach and detach
// independently; each event is delivered to every observer registered at the
// time it is sent. A signal delivers at most one terminal event, and nothing
// after it.
type Signal[T any] struct {
	core *signalCore[T]
}

type signalCore[T any] struct {
	mu         sync.Mutex
	observers  bag[Observer[T]]
	queue      []Event[T]
	delivering bool
	terminated bool

	// onTerminal, when assigned before the first send, runs once the terminal
	// event has been delivered to every observer. Teardown driven by it can
	// never race ahead of the terminal.
	onTerminal func()
}

// Pipe returns a new signal and the observer that feeds events into it.
func Pipe[T any]() (*Signal[T], Observer[T]) {
	core := &signalCore[T]{}

	return &Signal[T]{core: core}, core.send
}

// Observe attaches observer to the signal and returns a handle that detaches
// it. If the signal has already terminated, observer immediately receives
// Interrupted and an already-disposed handle is returned.
func (s *Signal[T]) Observe(observer Observer[T]) Disposable {
	core := s.core

	core.mu.Lock()

	if core.terminated {
		core.mu.Unlock()
		observer(Interrupted[T]())

		return spentDisposable()
	}

	token := core.observers.insert(observer)

	core.mu.Unlock()

	return NewDisposable(func() {
		core.mu.Lock()
		core.observers.remove(token)
		core.mu.Unlock()
	})
}

// send enqueues event and, unless a delivery loop is already running on
// another frame, drains the queue. Serializing delivery through the queue
// keeps events ordered by arrival and makes re-entrant sends from observer
// callbacks safe: they enqueue and return, and the outer drain picks them up.
func (c *signalCore[T]) send(event Event[T]) {
	c.mu.Lock()

	if c.terminated {
		c.mu.Unlock()
		return
	}

	c.queue = append(c.queue, event)

	if c.delivering {
		c.mu.Unlock()
		return
	}

	c.delivering = true
	c.drain()
}

// drain delivers queued events in order. Called with c.mu held; returns with
// it released. The first terminal event wins: it tears down the observer set
// in the same critical section that marks the signal terminated, so no
// observer can join between the two.
func (c *signalCore[T]) drain() {
	for len(c.queue) > 0 {
		event := c.queue[0]
		c.queue = c.queue[1:]

		var observers []Observer[T]

		var hook func()

		if event.IsTerminal() {
			c.terminated = true
			observers = c.observers.snapshot()
			c.observers = bag[Observer[T]]{}
			c.queue = nil
			hook = c.onTerminal
		} else {
			observers = c.observers.snapshot()
		}

		c.mu.Unlock()

		for _, observer := range observers {
			observer(event)
		}

		if hook != nil {
			hook()
		}

		c.mu.Lock()

		if c.terminated {
			break
		}
	}

	c.delivering = false
	c.mu.Unlock()
}
