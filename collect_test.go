package coldstream

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestScan(t *testing.T) {
	is := is.New(t)

	p := Scan(OfSequence([]int{1, 2, 3}), 0, func(acc, value int) int {
		return acc + value
	})

	is.Equal(runValues(p), []int{1, 3, 6})
}

func TestReduce(t *testing.T) {
	is := is.New(t)

	p := Reduce(OfSequence([]int{1, 2, 3, 4, 5}), 0, func(acc, value int) int {
		return acc + value
	})

	is.Equal(runEvents(p), []Event[int]{Next(15), Completed[int]()})
}

func TestReduceEmptyEmitsInitial(t *testing.T) {
	is := is.New(t)

	p := Reduce(Empty[int](), 7, func(acc, value int) int {
		return acc + value
	})

	is.Equal(runEvents(p), []Event[int]{Next(7), Completed[int]()})
}

func TestCollect(t *testing.T) {
	is := is.New(t)

	is.Equal(runValues(Collect(OfSequence([]int{1, 2, 3}))), [][]int{{1, 2, 3}})
}

func TestTakeLast(t *testing.T) {
	is := is.New(t)

	p := TakeLast(OfSequence([]int{1, 2, 3, 4, 5}), 2)

	is.Equal(runEvents(p), []Event[int]{Next(4), Next(5), Completed[int]()})
}

func TestTakeLastFewerValuesThanCount(t *testing.T) {
	is := is.New(t)

	is.Equal(runValues(TakeLast(OfSequence([]int{1}), 3)), []int{1})
}

func TestTakeLastDropsHeldValuesOnFailure(t *testing.T) {
	is := is.New(t)

	boom := errors.New("boom")

	upstream := New(func(observer Observer[int], _ *CompositeDisposable) {
		observer(Next(1))
		observer(Next(2))
		observer(Failed[int](boom))
	})

	is.Equal(runEvents(TakeLast(upstream, 2)), []Event[int]{Failed[int](boom)})
}

func TestTakeLastZero(t *testing.T) {
	is := is.New(t)

	is.Equal(runEvents(TakeLast(OfSequence([]int{1, 2}), 0)), []Event[int]{Completed[int]()})
}
