package cow

import (
	"errors"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

// errNoChange aborts a mutation without publishing a new snapshot.
var errNoChange = errors.New("cow: no change")

// snapshotEnumerator walks a captured slice. The slice is never modified
// after publication, so the enumerator needs no synchronization and is
// unaffected by later writes to the container.
type snapshotEnumerator[T any] struct {
	items []T
	pos   int
	cur   T
	done  bool
}

func newSnapshotEnumerator[T any](items []T) *snapshotEnumerator[T] {
	return &snapshotEnumerator[T]{items: items, pos: -1}
}

// MoveNext advances the cursor.
func (e *snapshotEnumerator[T]) MoveNext() bool {
	if e.done {
		return false
	}
	e.pos++
	if e.pos >= len(e.items) {
		e.finish()
		return false
	}
	e.cur = e.items[e.pos]
	return true
}

// Current returns the element at the cursor.
func (e *snapshotEnumerator[T]) Current() T {
	return e.cur
}

// Reset always fails: a snapshot enumerator cannot be rewound. Call
// Enumerate again to capture a fresh snapshot.
func (e *snapshotEnumerator[T]) Reset() error {
	return collections.NewError(collections.KindInvalidOperation, "cow.Enumerator.Reset", "").
		WithDetails("snapshot enumerators cannot be reset; enumerate again")
}

// Dispose drops the snapshot reference. It is safe to call repeatedly.
func (e *snapshotEnumerator[T]) Dispose() {
	e.finish()
}

func (e *snapshotEnumerator[T]) finish() {
	var zero T
	e.done = true
	e.items = nil
	e.cur = zero
}
