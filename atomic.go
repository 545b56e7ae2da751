package coldstream

import "sync"

// cell is a mutex-guarded value supporting single-round-trip read-modify
// cycles. Decisions derived from a mutation ("was this the terminal
// transition") are made inside the same modify call that performs it.
type cell[T any] struct {
	mu    sync.Mutex
	value T
}

// modify applies f to the value under the cell's lock.
func (c *cell[T]) modify(f func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f(&c.value)
}
