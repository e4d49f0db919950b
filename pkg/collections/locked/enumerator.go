package locked

import "github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"

// cursor yields the elements of the live structure. It is created and
// consumed only while the read lock is held.
type cursor[T any] struct {
	next func() (T, bool)
	stop func()
}

// scopedEnumerator holds the container's read lock from construction until
// the sequence is exhausted or Dispose is called. Writers block for that
// whole window, so the view never changes under the cursor.
type scopedEnumerator[T any] struct {
	mu       *rwlock
	open     func() cursor[T]
	disposed func() bool
	site     string

	c    cursor[T]
	cur  T
	held bool
}

// newScopedEnumerator must be called with mu read-locked; the enumerator
// takes ownership of that read lock.
func newScopedEnumerator[T any](mu *rwlock, site string, disposed func() bool, open func() cursor[T]) *scopedEnumerator[T] {
	return &scopedEnumerator[T]{
		mu:       mu,
		open:     open,
		disposed: disposed,
		site:     site,
		c:        open(),
		held:     true,
	}
}

// MoveNext advances the cursor. It releases the read lock as soon as the
// sequence is exhausted.
func (e *scopedEnumerator[T]) MoveNext() bool {
	if !e.held {
		return false
	}
	v, ok := e.c.next()
	if !ok {
		e.release()
		return false
	}
	e.cur = v
	return true
}

// Current returns the element at the cursor.
func (e *scopedEnumerator[T]) Current() T {
	return e.cur
}

// Reset rewinds to the start. If the lock was already released it is
// acquired again, so Reset blocks while a writer holds the container.
func (e *scopedEnumerator[T]) Reset() error {
	if e.held {
		e.c.stop()
	} else {
		e.mu.RLock()
		if e.disposed() {
			e.mu.RUnlock()
			return collections.Disposed(e.site)
		}
		e.held = true
	}
	var zero T
	e.cur = zero
	e.c = e.open()
	return nil
}

// Dispose releases the read lock if it is still held. Calling it again is a no-op.
func (e *scopedEnumerator[T]) Dispose() {
	e.release()
}

func (e *scopedEnumerator[T]) release() {
	if !e.held {
		return
	}
	var zero T
	e.c.stop()
	e.c = cursor[T]{}
	e.cur = zero
	e.held = false
	e.mu.RUnlock()
}
