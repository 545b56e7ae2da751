package coldstream

// bagToken identifies an entry in a bag.
type bagToken uint64

type bagEntry[T any] struct {
	value T
	token bagToken
}

// bag is an ordered collection with stable iteration order and removal by
// token. It is not safe for concurrent use; callers hold their own lock.
type bag[T any] struct {
	entries []bagEntry[T]
	next    bagToken
}

func (b *bag[T]) insert(value T) bagToken {
	b.next++
	b.entries = append(b.entries, bagEntry[T]{value: value, token: b.next})

	return b.next
}

func (b *bag[T]) remove(token bagToken) {
	for i, entry := range b.entries {
		if entry.token == token {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns the values in insertion order.
func (b *bag[T]) snapshot() []T {
	values := make([]T, len(b.entries))
	for i, entry := range b.entries {
		values[i] = entry.value
	}

	return values
}
