package coldstream

import (
	"sync"
	"time"
)

// Scheduler dispatches units of work.
type Scheduler interface {
	// Schedule arranges for action to run. The returned disposable prevents
	// the action from running if disposed before execution.
	Schedule(action func()) Disposable
}

// DateScheduler is a Scheduler that can also schedule work in the future.
type DateScheduler interface {
	Scheduler

	// Now returns the scheduler's current time.
	Now() time.Time

	// ScheduleAfter arranges for action to run once delay has elapsed.
	ScheduleAfter(delay time.Duration, action func()) Disposable

	// ScheduleRepeating arranges for action to run every interval until the
	// returned disposable is disposed. leeway hints how far a tick may be
	// deferred to coalesce wakeups; implementations may ignore it.
	ScheduleRepeating(interval, leeway time.Duration, action func()) Disposable
}

// ImmediateScheduler runs actions synchronously on the calling goroutine.
type ImmediateScheduler struct{}

// Schedule runs action before returning.
func (ImmediateScheduler) Schedule(action func()) Disposable {
	action()

	return spentDisposable()
}

// AsyncScheduler runs actions on a single background goroutine, in submission
// order. The zero value is ready to use.
type AsyncScheduler struct {
	mu      sync.Mutex
	queue   []*scheduledAction
	running bool
}

type scheduledAction struct {
	action func()
	handle *ActionDisposable
}

// NewAsyncScheduler returns a scheduler executing actions serially off the
// calling goroutine.
func NewAsyncScheduler() *AsyncScheduler {
	return &AsyncScheduler{}
}

// Schedule enqueues action for execution in submission order.
func (s *AsyncScheduler) Schedule(action func()) Disposable {
	unit := &scheduledAction{action: action, handle: NewDisposable(nil)}

	s.mu.Lock()
	s.queue = append(s.queue, unit)
	start := !s.running
	if start {
		s.running = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}

	return unit.handle
}

func (s *AsyncScheduler) drain() {
	for {
		s.mu.Lock()

		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()

			return
		}

		unit := s.queue[0]
		s.queue = s.queue[1:]

		s.mu.Unlock()

		if !unit.handle.Disposed() {
			unit.action()
		}
	}
}

// Now returns the current wall-clock time.
func (s *AsyncScheduler) Now() time.Time {
	return time.Now()
}

// ScheduleAfter enqueues action once delay has elapsed.
func (s *AsyncScheduler) ScheduleAfter(delay time.Duration, action func()) Disposable {
	slot := NewSerial()

	timer := time.AfterFunc(delay, func() {
		slot.Set(s.Schedule(action))
	})

	return NewDisposable(func() {
		timer.Stop()
		slot.Dispose()
	})
}

// ScheduleRepeating enqueues action every interval until disposed.
// leeway is accepted for interface compatibility; the runtime timer does not
// expose tick coalescing.
func (s *AsyncScheduler) ScheduleRepeating(interval, leeway time.Duration, action func()) Disposable {
	_ = leeway

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Schedule(action)

			case <-done:
				return
			}
		}
	}()

	return NewDisposable(func() {
		ticker.Stop()
		close(done)
	})
}
