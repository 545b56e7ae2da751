package coldstream

import "time"

// Timer returns a producer that emits the scheduler's current time every
// interval, forever. Cancelling a run stops its underlying timer. leeway
// hints how far the scheduler may defer a tick to coalesce wakeups.
func Timer(interval, leeway time.Duration, scheduler DateScheduler) Producer[time.Time] {
	return New(func(observer Observer[time.Time], lifetime *CompositeDisposable) {
		lifetime.Add(scheduler.ScheduleRepeating(interval, leeway, func() {
			observer(Next(scheduler.Now()))
		}))
	})
}
