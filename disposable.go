package coldstream

import "sync"

// Disposable cancels work or releases a resource when disposed.
// Dispose is idempotent: the underlying action runs at most once.
type Disposable interface {
	Dispose()
	Disposed() bool
}

// ActionDisposable runs an action at most once when disposed.
type ActionDisposable struct {
	mu       sync.Mutex
	action   func()
	disposed bool
}

// NewDisposable returns a disposable that runs action on the first Dispose.
// action may be nil, in which case disposing only flips the flag.
func NewDisposable(action func()) *ActionDisposable {
	return &ActionDisposable{action: action}
}

// Dispose runs the action if it has not run yet.
func (d *ActionDisposable) Dispose() {
	d.mu.Lock()
	action := d.action
	d.action = nil
	d.disposed = true
	d.mu.Unlock()

	if action != nil {
		action()
	}
}

// Disposed reports whether Dispose has been called.
func (d *ActionDisposable) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.disposed
}

// spentDisposable returns an already-disposed handle.
func spentDisposable() Disposable {
	d := NewDisposable(nil)
	d.Dispose()

	return d
}

// Token identifies a child registered with a CompositeDisposable.
// The zero Token never refers to a child.
type Token uint64

// CompositeDisposable owns a set of child disposables and disposes each
// currently registered child exactly once when it is itself disposed.
// Children are held in an arena keyed by Token, so a child can be
// deregistered by handle without identity comparisons, and children may
// register further children concurrently.
type CompositeDisposable struct {
	mu       sync.Mutex
	children map[Token]Disposable
	order    []Token
	next     Token
	disposed bool
}

// NewComposite returns a composite owning the given children.
func NewComposite(children ...Disposable) *CompositeDisposable {
	c := &CompositeDisposable{children: map[Token]Disposable{}}
	for _, child := range children {
		c.Add(child)
	}

	return c
}

// Add registers child and returns its removal token.
// If the composite is already disposed, child is disposed immediately and the
// zero token is returned.
func (c *CompositeDisposable) Add(child Disposable) Token {
	if child == nil {
		return 0
	}

	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		child.Dispose()

		return 0
	}

	c.next++
	token := c.next
	c.children[token] = child
	c.order = append(c.order, token)

	c.mu.Unlock()

	return token
}

// Remove deregisters the child identified by token without disposing it.
func (c *CompositeDisposable) Remove(token Token) {
	c.mu.Lock()
	delete(c.children, token)
	c.mu.Unlock()
}

// Dispose disposes every currently registered child, in registration order.
// Subsequent calls are no-ops.
func (c *CompositeDisposable) Dispose() {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return
	}

	c.disposed = true
	children := c.children
	order := c.order
	c.children = nil
	c.order = nil

	c.mu.Unlock()

	for _, token := range order {
		if child, ok := children[token]; ok {
			child.Dispose()
		}
	}
}

// Disposed reports whether Dispose has been called.
func (c *CompositeDisposable) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disposed
}

// SerialDisposable holds at most one inner disposable. Assigning a new inner
// disposes the previous one; disposing the serial disposes the current inner
// and every inner assigned afterwards.
type SerialDisposable struct {
	mu       sync.Mutex
	inner    Disposable
	disposed bool
}

// NewSerial returns an empty serial disposable.
func NewSerial() *SerialDisposable {
	return &SerialDisposable{}
}

// Set makes inner the current occupant, disposing the previous one.
// inner may be nil to empty the slot.
func (s *SerialDisposable) Set(inner Disposable) {
	s.mu.Lock()

	if s.disposed {
		s.mu.Unlock()

		if inner != nil {
			inner.Dispose()
		}

		return
	}

	previous := s.inner
	s.inner = inner

	s.mu.Unlock()

	if previous != nil {
		previous.Dispose()
	}
}

// Dispose disposes the current inner disposable, if any.
func (s *SerialDisposable) Dispose() {
	s.mu.Lock()

	if s.disposed {
		s.mu.Unlock()
		return
	}

	s.disposed = true
	inner := s.inner
	s.inner = nil

	s.mu.Unlock()

	if inner != nil {
		inner.Dispose()
	}
}

// Disposed reports whether Dispose has been called.
func (s *SerialDisposable) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.disposed
}
