// Package cow provides copy-on-write concurrent containers.
package cow

import (
	"cmp"
	"errors"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

var _ collections.List[int] = (*List[int])(nil)

// List is a copy-on-write list.
//
// Every mutation clones the whole backing slice under mu and publishes the
// clone with one atomic store. Reads load the current slice once and never
// lock, so writes cost O(n) while reads cost nothing extra. Use it for
// read-mostly data.
type List[T comparable] struct {
	mu      sync.Mutex
	items   atomic.Pointer[[]T]
	version atomic.Uint64
	compare func(a, b T) int
}

// New creates an empty list.
func New[T comparable](opts ...collections.Option[T]) *List[T] {
	o := collections.ApplyOptions(opts...)
	l := &List[T]{compare: o.Compare}
	items := make([]T, 0, o.Capacity)
	l.items.Store(&items)
	return l
}

// NewFrom creates a list holding a copy of src.
func NewFrom[T comparable](src []T, opts ...collections.Option[T]) *List[T] {
	o := collections.ApplyOptions(opts...)
	l := &List[T]{compare: o.Compare}
	items := make([]T, len(src), max(len(src), o.Capacity))
	copy(items, src)
	l.items.Store(&items)
	return l
}

// NewOrdered creates an empty list whose Sort uses cmp.Compare.
func NewOrdered[T cmp.Ordered](opts ...collections.Option[T]) *List[T] {
	return New(append([]collections.Option[T]{collections.Ordered[T]()}, opts...)...)
}

// NewOrderedFrom creates a list holding a copy of src whose Sort uses cmp.Compare.
func NewOrderedFrom[T cmp.Ordered](src []T, opts ...collections.Option[T]) *List[T] {
	return NewFrom(src, append([]collections.Option[T]{collections.Ordered[T]()}, opts...)...)
}

// snapshot returns the currently published slice. Callers must not modify it.
func (l *List[T]) snapshot() []T {
	return *l.items.Load()
}

// mutate clones the current slice with room for grow extra elements,
// applies fn to the clone and publishes it. fn runs under mu and sees the
// latest snapshot, which may be newer than the one the caller validated.
func (l *List[T]) mutate(grow int, fn func(items []T) ([]T, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := *l.items.Load()
	clone := make([]T, len(cur), len(cur)+grow)
	copy(clone, cur)

	next, err := fn(clone)
	if err != nil {
		return err
	}
	l.publish(next)
	return nil
}

// publish must be called with mu held.
func (l *List[T]) publish(items []T) {
	l.items.Store(&items)
	l.version.Add(1)
}

// Version returns the number of snapshots published since construction.
func (l *List[T]) Version() uint64 {
	return l.version.Load()
}

// Count returns the length of the current snapshot.
func (l *List[T]) Count() (int, error) {
	return len(l.snapshot()), nil
}

// Get returns the element at index.
func (l *List[T]) Get(index int) (T, error) {
	items := l.snapshot()
	if err := collections.CheckIndex("cow.List.Get", "index", index, len(items)); err != nil {
		var zero T
		return zero, err
	}
	return items[index], nil
}

// Set replaces the element at index.
func (l *List[T]) Set(index int, item T) error {
	const site = "cow.List.Set"
	if err := collections.CheckIndex(site, "index", index, len(l.snapshot())); err != nil {
		return err
	}
	return l.mutate(0, func(items []T) ([]T, error) {
		// A concurrent writer may have shrunk the list since validation.
		if err := collections.CheckIndex(site, "index", index, len(items)); err != nil {
			return nil, err
		}
		items[index] = item
		return items, nil
	})
}

// Add appends item.
func (l *List[T]) Add(item T) error {
	return l.mutate(1, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// AddRange appends all of items in order.
func (l *List[T]) AddRange(items []T) error {
	if len(items) == 0 {
		return nil
	}
	return l.mutate(len(items), func(cur []T) ([]T, error) {
		return append(cur, items...), nil
	})
}

// Insert inserts item at index; index may equal Count.
func (l *List[T]) Insert(index int, item T) error {
	const site = "cow.List.Insert"
	if err := collections.CheckInsertIndex(site, "index", index, len(l.snapshot())); err != nil {
		return err
	}
	return l.mutate(1, func(items []T) ([]T, error) {
		if err := collections.CheckInsertIndex(site, "index", index, len(items)); err != nil {
			return nil, err
		}
		return slices.Insert(items, index, item), nil
	})
}

// InsertRange inserts items at index, preserving their order.
func (l *List[T]) InsertRange(index int, items []T) error {
	const site = "cow.List.InsertRange"
	if err := collections.CheckInsertIndex(site, "index", index, len(l.snapshot())); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return l.mutate(len(items), func(cur []T) ([]T, error) {
		if err := collections.CheckInsertIndex(site, "index", index, len(cur)); err != nil {
			return nil, err
		}
		return slices.Insert(cur, index, items...), nil
	})
}

// Remove removes the first occurrence of item and reports whether it was found.
func (l *List[T]) Remove(item T) (bool, error) {
	if !slices.Contains(l.snapshot(), item) {
		return false, nil
	}
	removed := false
	err := l.mutate(0, func(items []T) ([]T, error) {
		i := slices.Index(items, item)
		if i < 0 {
			return nil, errNoChange
		}
		removed = true
		return slices.Delete(items, i, i+1), nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return removed, err
}

// RemoveAt removes the element at index.
func (l *List[T]) RemoveAt(index int) error {
	const site = "cow.List.RemoveAt"
	if err := collections.CheckIndex(site, "index", index, len(l.snapshot())); err != nil {
		return err
	}
	return l.mutate(0, func(items []T) ([]T, error) {
		if err := collections.CheckIndex(site, "index", index, len(items)); err != nil {
			return nil, err
		}
		return slices.Delete(items, index, index+1), nil
	})
}

// RemoveRange removes count elements starting at index.
func (l *List[T]) RemoveRange(index, count int) error {
	const site = "cow.List.RemoveRange"
	if err := collections.CheckRange(site, index, count, len(l.snapshot())); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return l.mutate(0, func(items []T) ([]T, error) {
		if err := collections.CheckRange(site, index, count, len(items)); err != nil {
			return nil, err
		}
		return slices.Delete(items, index, index+count), nil
	})
}

// RemoveAll removes every element matching match and returns how many were removed.
func (l *List[T]) RemoveAll(match func(T) bool) (int, error) {
	if match == nil {
		return 0, collections.NewError(collections.KindNullArgument, "cow.List.RemoveAll", "match")
	}
	removed := 0
	err := l.mutate(0, func(items []T) ([]T, error) {
		before := len(items)
		items = slices.DeleteFunc(items, match)
		removed = before - len(items)
		if removed == 0 {
			return nil, errNoChange
		}
		return items, nil
	})
	if errors.Is(err, errNoChange) {
		return 0, nil
	}
	return removed, err
}

// Clear publishes a fresh empty slice.
func (l *List[T]) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.publish(make([]T, 0))
	return nil
}

// Contains reports whether item is in the current snapshot.
func (l *List[T]) Contains(item T) (bool, error) {
	return slices.Contains(l.snapshot(), item), nil
}

// IndexOf returns the index of the first occurrence of item, or -1.
func (l *List[T]) IndexOf(item T) (int, error) {
	return slices.Index(l.snapshot(), item), nil
}

// LastIndexOf returns the index of the last occurrence of item, or -1.
func (l *List[T]) LastIndexOf(item T) (int, error) {
	items := l.snapshot()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] == item {
			return i, nil
		}
	}
	return -1, nil
}

// Find returns the first element matching match.
func (l *List[T]) Find(match func(T) bool) (T, bool, error) {
	var zero T
	if match == nil {
		return zero, false, collections.NewError(collections.KindNullArgument, "cow.List.Find", "match")
	}
	for _, v := range l.snapshot() {
		if match(v) {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// FindIndex returns the index of the first element matching match, or -1.
func (l *List[T]) FindIndex(match func(T) bool) (int, error) {
	if match == nil {
		return -1, collections.NewError(collections.KindNullArgument, "cow.List.FindIndex", "match")
	}
	return slices.IndexFunc(l.snapshot(), match), nil
}

// FindAll returns every element matching match, in order.
func (l *List[T]) FindAll(match func(T) bool) ([]T, error) {
	if match == nil {
		return nil, collections.NewError(collections.KindNullArgument, "cow.List.FindAll", "match")
	}
	var out []T
	for _, v := range l.snapshot() {
		if match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// BinarySearch searches the current snapshot, which must be sorted by cmp.
// A nil cmp uses the default comparer.
func (l *List[T]) BinarySearch(item T, cmp func(a, b T) int) (int, bool, error) {
	cmp, err := l.comparer("cow.List.BinarySearch", cmp)
	if err != nil {
		return 0, false, err
	}
	i, found := slices.BinarySearchFunc(l.snapshot(), item, cmp)
	return i, found, nil
}

// GetRange returns a copy of count elements starting at index.
func (l *List[T]) GetRange(index, count int) ([]T, error) {
	items := l.snapshot()
	if err := collections.CheckRange("cow.List.GetRange", index, count, len(items)); err != nil {
		return nil, err
	}
	return slices.Clone(items[index : index+count]), nil
}

// Reverse reverses the order of the elements.
func (l *List[T]) Reverse() error {
	return l.mutate(0, func(items []T) ([]T, error) {
		slices.Reverse(items)
		return items, nil
	})
}

// Sort sorts the list with the default comparer.
func (l *List[T]) Sort() error {
	if l.compare == nil {
		return collections.NewError(collections.KindInvalidOperation, "cow.List.Sort", "").
			WithDetails("no default comparer")
	}
	return l.SortFunc(l.compare)
}

// SortFunc sorts the list with cmp. The sort is not stable.
func (l *List[T]) SortFunc(cmp func(a, b T) int) error {
	if cmp == nil {
		return collections.NewError(collections.KindNullArgument, "cow.List.SortFunc", "cmp")
	}
	return l.mutate(0, func(items []T) ([]T, error) {
		slices.SortFunc(items, cmp)
		return items, nil
	})
}

// SortRange sorts count elements starting at index. A nil cmp uses the
// default comparer.
func (l *List[T]) SortRange(index, count int, cmp func(a, b T) int) error {
	const site = "cow.List.SortRange"
	if err := collections.CheckRange(site, index, count, len(l.snapshot())); err != nil {
		return err
	}
	cmp, err := l.comparer(site, cmp)
	if err != nil {
		return err
	}
	return l.mutate(0, func(items []T) ([]T, error) {
		if err := collections.CheckRange(site, index, count, len(items)); err != nil {
			return nil, err
		}
		slices.SortFunc(items[index:index+count], cmp)
		return items, nil
	})
}

// CopyTo copies the current snapshot into dst starting at offset.
func (l *List[T]) CopyTo(dst []T, offset int) error {
	items := l.snapshot()
	if err := collections.CheckCopyTo("cow.List.CopyTo", dst == nil, len(dst), offset, len(items)); err != nil {
		return err
	}
	copy(dst[offset:], items)
	return nil
}

// ToSlice returns a copy of the current snapshot.
func (l *List[T]) ToSlice() ([]T, error) {
	return slices.Clone(l.snapshot()), nil
}

// Snapshot returns a copy of the current snapshot.
func (l *List[T]) Snapshot() []T {
	return slices.Clone(l.snapshot())
}

// Range calls fn for each element of the snapshot current at the time of
// the call, stopping early when fn returns false. Writes made by fn or by
// other goroutines are not observed.
func (l *List[T]) Range(fn func(index int, item T) bool) error {
	if fn == nil {
		return collections.NewError(collections.KindNullArgument, "cow.List.Range", "fn")
	}
	for i, v := range l.snapshot() {
		if !fn(i, v) {
			break
		}
	}
	return nil
}

// All returns an iterator over the snapshot current when iteration starts.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.snapshot() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Enumerate returns an enumerator over the current snapshot.
func (l *List[T]) Enumerate() (collections.Enumerator[T], error) {
	return newSnapshotEnumerator(l.snapshot()), nil
}

func (l *List[T]) comparer(site string, cmp func(a, b T) int) (func(a, b T) int, error) {
	if cmp != nil {
		return cmp, nil
	}
	if l.compare == nil {
		return nil, collections.NewError(collections.KindInvalidOperation, site, "cmp").
			WithDetails("no comparer given and no default comparer")
	}
	return l.compare, nil
}
