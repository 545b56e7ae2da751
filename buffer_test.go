package coldstream

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestBufferReplaysCapacityWindowAndTerminal(t *testing.T) {
	is := is.New(t)

	p, feed := Buffer[int](2)

	feed(Next(1))
	feed(Next(2))
	feed(Next(3))
	feed(Completed[int]())

	// a run started after all feeds replays the newest two values plus the
	// terminal; the oldest value was evicted
	is.Equal(runEvents(p), []Event[int]{Next(2), Next(3), Completed[int]()})
}

func TestBufferZeroCapacityReplaysTerminalOnly(t *testing.T) {
	is := is.New(t)

	p, feed := Buffer[int](0)

	feed(Next(1))
	feed(Completed[int]())

	is.Equal(runEvents(p), []Event[int]{Completed[int]()})
}

func TestBufferLiveObserverSeesReplayThenLiveEvents(t *testing.T) {
	is := is.New(t)

	p, feed := Buffer[int](2)

	feed(Next(1))
	feed(Next(2))
	feed(Next(3))

	events := []Event[int]{}
	done := make(chan struct{})

	p.Start(func(event Event[int]) {
		events = append(events, event)

		if event.IsTerminal() {
			close(done)
		}
	})

	// replay happened at start; these arrive live, without duplicates
	feed(Next(4))
	feed(Completed[int]())

	<-done

	is.Equal(events, []Event[int]{Next(2), Next(3), Next(4), Completed[int]()})
}

func TestBufferDropsEventsAfterTerminal(t *testing.T) {
	is := is.New(t)

	boom := errors.New("boom")

	p, feed := Buffer[int](4)

	feed(Next(1))
	feed(Failed[int](boom))
	feed(Next(2))
	feed(Completed[int]())

	is.Equal(runEvents(p), []Event[int]{Next(1), Failed[int](boom)})
}

func TestBufferFeedFromObserverIsQueuedInOrder(t *testing.T) {
	is := is.New(t)

	p, feed := Buffer[int](4)

	events := []Event[int]{}
	done := make(chan struct{})

	p.Start(func(event Event[int]) {
		events = append(events, event)

		if event.Kind == KindNext && event.Value == 1 {
			// feeding from inside delivery must neither deadlock nor jump
			// the queue
			feed(Next(2))
		}

		if event.IsTerminal() {
			close(done)
		}
	})

	feed(Next(1))
	feed(Completed[int]())

	<-done

	is.Equal(events, []Event[int]{Next(1), Next(2), Completed[int]()})
}

func TestBufferCancelledRunStopsReceiving(t *testing.T) {
	is := is.New(t)

	p, feed := Buffer[int](0)

	events := []Event[int]{}

	handle := p.Start(func(event Event[int]) {
		events = append(events, event)
	})

	feed(Next(1))
	handle.Dispose()
	feed(Next(2))

	is.Equal(events, []Event[int]{Next(1), Interrupted[int]()})
}

func TestBufferIndependentRunsShareHistory(t *testing.T) {
	is := is.New(t)

	p, feed := Buffer[int](4)

	feed(Next(1))

	firstRun := []Event[int]{}

	p.Start(func(event Event[int]) {
		firstRun = append(firstRun, event)
	})

	feed(Next(2))
	feed(Completed[int]())

	is.Equal(firstRun, []Event[int]{Next(1), Next(2), Completed[int]()})
	is.Equal(runEvents(p), []Event[int]{Next(1), Next(2), Completed[int]()})
}
