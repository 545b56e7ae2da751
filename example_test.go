package coldstream

import (
	"fmt"
	"strconv"
)

func Example() {
	// describe a pipeline; nothing runs yet
	evens := Filter(OfSequence([]int{1, 2, 3, 4, 5}), func(value int) bool {
		return value%2 == 0
	})

	labels := Map(evens, func(value int) string {
		return "#" + strconv.Itoa(value*10)
	})

	// starting the producer materializes one run of the whole chain;
	// Single blocks until it terminates
	result, _ := Collect(labels).Single()

	values, _ := result.Value()

	fmt.Printf("%+v\n", values)
	// Output: [#20 #40]
}
