package coldstream

import (
	"testing"

	"github.com/matryer/is"
)

func TestBagKeepsInsertionOrder(t *testing.T) {
	is := is.New(t)

	b := bag[string]{}

	b.insert("a")
	token := b.insert("b")
	b.insert("c")

	is.Equal(b.snapshot(), []string{"a", "b", "c"})

	b.remove(token)

	is.Equal(b.snapshot(), []string{"a", "c"})

	b.remove(token) // second removal is a no-op

	is.Equal(b.snapshot(), []string{"a", "c"})
}
