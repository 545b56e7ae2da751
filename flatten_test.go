package coldstream

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"golang.org/x/exp/slices"
)

// sleepyValue returns a producer that emits value and completes on its own
// goroutine after d has elapsed.
func sleepyValue(d time.Duration, value int) Producer[int] {
	return New(func(observer Observer[int], _ *CompositeDisposable) {
		go func() {
			time.Sleep(d)
			observer(Next(value))
			observer(Completed[int]())
		}()
	})
}

func TestMergeCompletesAfterAllInners(t *testing.T) {
	is := is.New(t)

	a := sleepyValue(20*time.Millisecond, 1)
	b := sleepyValue(5*time.Millisecond, 2)

	events := runEvents(Merge(a, b))

	values := []int{}
	for _, event := range events[:len(events)-1] {
		is.Equal(event.Kind, KindNext)
		values = append(values, event.Value)
	}

	slices.Sort(values)

	is.Equal(values, []int{1, 2})
	is.Equal(events[len(events)-1], Completed[int]())
}

func TestMergeForwardsFailureImmediately(t *testing.T) {
	is := is.New(t)

	boom := errors.New("boom")

	events := runEvents(Merge(OfError[int](boom), Never[int]()))

	is.Equal(events, []Event[int]{Failed[int](boom)})
}

// TestMergeCompletionRace drives many inner producers that complete
// concurrently with the outer completion, checking that the in-flight
// bookkeeping neither completes early (missing values) nor double-counts
// (which would either complete twice or never).
func TestMergeCompletionRace(t *testing.T) {
	is := is.New(t)

	const inners = 100

	for round := 0; round < 20; round++ {
		producers := make([]Producer[int], inners)

		for i := range producers {
			value := i

			producers[i] = New(func(observer Observer[int], _ *CompositeDisposable) {
				go func() {
					observer(Next(value))
					observer(Completed[int]())
				}()
			})
		}

		events := runEvents(Flatten(OfSequence(producers), StrategyMerge))

		is.Equal(len(events), inners+1)
		is.Equal(events[len(events)-1], Completed[int]())
	}
}

func TestConcatPreservesOrder(t *testing.T) {
	is := is.New(t)

	a := sleepyValue(20*time.Millisecond, 1)
	b := OfValue(2)

	events := runEvents(Concat(a, b))

	is.Equal(events, []Event[int]{Next(1), Next(2), Completed[int]()})
}

func TestConcatOfSynchronousProducers(t *testing.T) {
	is := is.New(t)

	p := Concat(OfSequence([]int{1, 2}), OfSequence([]int{3, 4}))

	is.Equal(runValues(p), []int{1, 2, 3, 4})
}

func TestConcatOuterFailureBypassesQueue(t *testing.T) {
	is := is.New(t)

	boom := errors.New("boom")

	outer := New(func(observer Observer[Producer[int]], _ *CompositeDisposable) {
		observer(Next(Never[int]()))
		observer(Failed[Producer[int]](boom))
	})

	events := runEvents(Flatten(outer, StrategyConcat))

	is.Equal(events, []Event[int]{Failed[int](boom)})
}

func TestConcatCompletesOnlyAfterQueueDrains(t *testing.T) {
	is := is.New(t)

	// the outer completes while the slow inner is still queued
	a := sleepyValue(10*time.Millisecond, 1)
	b := sleepyValue(10*time.Millisecond, 2)

	events := runEvents(Concat(a, b))

	is.Equal(events, []Event[int]{Next(1), Next(2), Completed[int]()})
}

func TestSwitchToLatestInterruptsSuperseded(t *testing.T) {
	is := is.New(t)

	p1 := New(func(observer Observer[int], _ *CompositeDisposable) {
		observer(Next(1))
		// never completes
	})

	p2 := OfValue(2)

	outer := OfSequence([]Producer[int]{p1, p2})

	events := runEvents(Flatten(outer, StrategyLatest))

	// p1's value arrives before p2 supersedes it; the Interrupted generated
	// by disposing p1 must never surface.
	is.Equal(events, []Event[int]{Next(1), Next(2), Completed[int]()})
}

func TestSwitchToLatestOuterCompletesBeforeInner(t *testing.T) {
	is := is.New(t)

	inner := sleepyValue(10*time.Millisecond, 7)

	events := runEvents(Flatten(OfSequence([]Producer[int]{inner}), StrategyLatest))

	is.Equal(events, []Event[int]{Next(7), Completed[int]()})
}

func TestSwitchToLatestInnerCompletesBeforeOuter(t *testing.T) {
	is := is.New(t)

	outer, feed := Buffer[Producer[int]](0)

	events := []Event[int]{}
	done := make(chan struct{})

	Flatten(outer, StrategyLatest).Start(func(event Event[int]) {
		events = append(events, event)

		if event.IsTerminal() {
			close(done)
		}
	})

	feed(Next(OfValue(1)))
	feed(Completed[Producer[int]]())

	<-done

	is.Equal(events, []Event[int]{Next(1), Completed[int]()})
}

func TestSwitchToLatestIgnoresLateInterruptFromSuperseded(t *testing.T) {
	is := is.New(t)

	var sendFirst Observer[int]

	firstReady := make(chan struct{})

	first := New(func(observer Observer[int], _ *CompositeDisposable) {
		sendFirst = observer
		close(firstReady)
	})

	outer, feed := Buffer[Producer[int]](0)

	events := []Event[int]{}
	gotValue := make(chan struct{})
	hold := make(chan struct{})

	Flatten(outer, StrategyLatest).Start(func(event Event[int]) {
		events = append(events, event)

		if event.Kind == KindNext {
			close(gotValue)
			<-hold
		}
	})

	feed(Next(first))
	<-firstReady

	emitted := make(chan struct{})

	go func() {
		sendFirst(Next(1))
		close(emitted)
	}()

	<-gotValue

	// supersede the first inner while its delivery is parked: the Interrupted
	// from disposing it is queued behind Next(1) and arrives only after the
	// swap has finished, so it must not count as the current inner terminating
	feed(Next(Never[int]()))
	feed(Completed[Producer[int]]())

	close(hold)
	<-emitted

	// the replacement never terminates, so neither must the aggregate
	is.Equal(events, []Event[int]{Next(1)})
}

func TestSwitchToLatestForwardsInnerFailure(t *testing.T) {
	is := is.New(t)

	boom := errors.New("boom")

	outer := OfSequence([]Producer[int]{OfError[int](boom)})

	events := runEvents(Flatten(outer, StrategyLatest))

	is.Equal(events, []Event[int]{Failed[int](boom)})
}

func TestFlatMapConcat(t *testing.T) {
	is := is.New(t)

	p := FlatMap(OfSequence([]int{1, 2}), StrategyConcat, func(value int) Producer[int] {
		return OfSequence([]int{value, value * 10})
	})

	is.Equal(runValues(p), []int{1, 10, 2, 20})
}

func TestFlatMapMergeSynchronous(t *testing.T) {
	is := is.New(t)

	p := FlatMap(OfSequence([]int{1, 2}), StrategyMerge, func(value int) Producer[int] {
		return OfValue(value * 2)
	})

	values := runValues(p)
	slices.Sort(values)

	is.Equal(values, []int{2, 4})
}
