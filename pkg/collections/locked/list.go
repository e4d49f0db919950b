// Package locked provides reader/writer-lock-guarded concurrent containers.
package locked

import (
	"cmp"
	"slices"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

var _ collections.List[int] = (*List[int])(nil)

// List is a list guarded by a single reader/writer lock. Reads take the read lock,
// writes take the write lock and modify the slice in place.
//
// A List must be disposed exactly once when no longer needed; every call
// after Dispose fails with UsedAfterDispose.
type List[T comparable] struct {
	mu       rwlock
	items    []T
	compare  func(a, b T) int
	disposed bool
}

// New creates an empty list.
func New[T comparable](opts ...collections.Option[T]) *List[T] {
	o := collections.ApplyOptions(opts...)
	return &List[T]{
		items:   make([]T, 0, o.Capacity),
		compare: o.Compare,
	}
}

// NewFrom creates a list holding a copy of src.
func NewFrom[T comparable](src []T, opts ...collections.Option[T]) *List[T] {
	o := collections.ApplyOptions(opts...)
	items := make([]T, len(src), max(len(src), o.Capacity))
	copy(items, src)
	return &List[T]{items: items, compare: o.Compare}
}

// NewOrdered creates an empty list whose Sort uses cmp.Compare.
func NewOrdered[T cmp.Ordered](opts ...collections.Option[T]) *List[T] {
	return New(append([]collections.Option[T]{collections.Ordered[T]()}, opts...)...)
}

// NewOrderedFrom creates a list holding a copy of src whose Sort uses cmp.Compare.
func NewOrderedFrom[T cmp.Ordered](src []T, opts ...collections.Option[T]) *List[T] {
	return NewFrom(src, append([]collections.Option[T]{collections.Ordered[T]()}, opts...)...)
}

// rlock acquires the read lock, or returns UsedAfterDispose without holding it.
func (l *List[T]) rlock(site string) error {
	l.mu.RLock()
	if l.disposed {
		l.mu.RUnlock()
		return collections.Disposed(site)
	}
	return nil
}

// lock acquires the write lock, or returns UsedAfterDispose without holding it.
func (l *List[T]) lock(site string) error {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return collections.Disposed(site)
	}
	return nil
}

func (l *List[T]) isDisposed() bool {
	return l.disposed
}

// Dispose releases the list's storage. Later calls are no-ops. Dispose
// waits for open enumerators to finish.
func (l *List[T]) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return
	}
	l.disposed = true
	l.items = nil
}

// Close disposes the list. It implements io.Closer and always returns nil.
func (l *List[T]) Close() error {
	l.Dispose()
	return nil
}

// Disposed reports whether Dispose has been called.
func (l *List[T]) Disposed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.disposed
}

// Count returns the number of elements.
func (l *List[T]) Count() (int, error) {
	if err := l.rlock("locked.List.Count"); err != nil {
		return 0, err
	}
	defer l.mu.RUnlock()
	return len(l.items), nil
}

// Get returns the element at index.
func (l *List[T]) Get(index int) (T, error) {
	const site = "locked.List.Get"
	var zero T
	if err := l.rlock(site); err != nil {
		return zero, err
	}
	defer l.mu.RUnlock()
	if err := collections.CheckIndex(site, "index", index, len(l.items)); err != nil {
		return zero, err
	}
	return l.items[index], nil
}

// Set replaces the element at index.
func (l *List[T]) Set(index int, item T) error {
	const site = "locked.List.Set"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if err := collections.CheckIndex(site, "index", index, len(l.items)); err != nil {
		return err
	}
	l.items[index] = item
	return nil
}

// Add appends item.
func (l *List[T]) Add(item T) error {
	if err := l.lock("locked.List.Add"); err != nil {
		return err
	}
	defer l.mu.Unlock()
	l.items = append(l.items, item)
	return nil
}

// AddRange appends all of items in order.
func (l *List[T]) AddRange(items []T) error {
	if err := l.lock("locked.List.AddRange"); err != nil {
		return err
	}
	defer l.mu.Unlock()
	l.items = append(l.items, items...)
	return nil
}

// Insert inserts item at index; index may equal Count.
func (l *List[T]) Insert(index int, item T) error {
	const site = "locked.List.Insert"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if err := collections.CheckInsertIndex(site, "index", index, len(l.items)); err != nil {
		return err
	}
	l.items = slices.Insert(l.items, index, item)
	return nil
}

// InsertRange inserts items at index, preserving their order.
func (l *List[T]) InsertRange(index int, items []T) error {
	const site = "locked.List.InsertRange"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if err := collections.CheckInsertIndex(site, "index", index, len(l.items)); err != nil {
		return err
	}
	l.items = slices.Insert(l.items, index, items...)
	return nil
}

// Remove removes the first occurrence of item and reports whether it was found.
func (l *List[T]) Remove(item T) (bool, error) {
	if err := l.lock("locked.List.Remove"); err != nil {
		return false, err
	}
	defer l.mu.Unlock()
	i := slices.Index(l.items, item)
	if i < 0 {
		return false, nil
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true, nil
}

// RemoveAt removes the element at index.
func (l *List[T]) RemoveAt(index int) error {
	const site = "locked.List.RemoveAt"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if err := collections.CheckIndex(site, "index", index, len(l.items)); err != nil {
		return err
	}
	l.items = slices.Delete(l.items, index, index+1)
	return nil
}

// RemoveRange removes count elements starting at index.
func (l *List[T]) RemoveRange(index, count int) error {
	const site = "locked.List.RemoveRange"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if err := collections.CheckRange(site, index, count, len(l.items)); err != nil {
		return err
	}
	l.items = slices.Delete(l.items, index, index+count)
	return nil
}

// RemoveAll removes every element matching match and returns how many were removed.
// match runs under the write lock and must not call back into the list.
func (l *List[T]) RemoveAll(match func(T) bool) (int, error) {
	const site = "locked.List.RemoveAll"
	if err := l.lock(site); err != nil {
		return 0, err
	}
	defer l.mu.Unlock()
	if match == nil {
		return 0, collections.NewError(collections.KindNullArgument, site, "match")
	}
	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, match)
	return before - len(l.items), nil
}

// Clear removes all elements.
func (l *List[T]) Clear() error {
	if err := l.lock("locked.List.Clear"); err != nil {
		return err
	}
	defer l.mu.Unlock()
	clear(l.items)
	l.items = l.items[:0]
	return nil
}

// Contains reports whether item is in the list.
func (l *List[T]) Contains(item T) (bool, error) {
	if err := l.rlock("locked.List.Contains"); err != nil {
		return false, err
	}
	defer l.mu.RUnlock()
	return slices.Contains(l.items, item), nil
}

// IndexOf returns the index of the first occurrence of item, or -1.
func (l *List[T]) IndexOf(item T) (int, error) {
	if err := l.rlock("locked.List.IndexOf"); err != nil {
		return -1, err
	}
	defer l.mu.RUnlock()
	return slices.Index(l.items, item), nil
}

// LastIndexOf returns the index of the last occurrence of item, or -1.
func (l *List[T]) LastIndexOf(item T) (int, error) {
	if err := l.rlock("locked.List.LastIndexOf"); err != nil {
		return -1, err
	}
	defer l.mu.RUnlock()
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i] == item {
			return i, nil
		}
	}
	return -1, nil
}

// Find returns the first element matching match.
func (l *List[T]) Find(match func(T) bool) (T, bool, error) {
	const site = "locked.List.Find"
	var zero T
	if err := l.rlock(site); err != nil {
		return zero, false, err
	}
	defer l.mu.RUnlock()
	if match == nil {
		return zero, false, collections.NewError(collections.KindNullArgument, site, "match")
	}
	for _, v := range l.items {
		if match(v) {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// FindIndex returns the index of the first element matching match, or -1.
func (l *List[T]) FindIndex(match func(T) bool) (int, error) {
	const site = "locked.List.FindIndex"
	if err := l.rlock(site); err != nil {
		return -1, err
	}
	defer l.mu.RUnlock()
	if match == nil {
		return -1, collections.NewError(collections.KindNullArgument, site, "match")
	}
	return slices.IndexFunc(l.items, match), nil
}

// FindAll returns every element matching match, in order.
func (l *List[T]) FindAll(match func(T) bool) ([]T, error) {
	const site = "locked.List.FindAll"
	if err := l.rlock(site); err != nil {
		return nil, err
	}
	defer l.mu.RUnlock()
	if match == nil {
		return nil, collections.NewError(collections.KindNullArgument, site, "match")
	}
	var out []T
	for _, v := range l.items {
		if match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// BinarySearch searches the list, which must be sorted by cmp. A nil cmp
// uses the default comparer.
func (l *List[T]) BinarySearch(item T, cmp func(a, b T) int) (int, bool, error) {
	const site = "locked.List.BinarySearch"
	if err := l.rlock(site); err != nil {
		return 0, false, err
	}
	defer l.mu.RUnlock()
	cmp, err := l.comparer(site, cmp)
	if err != nil {
		return 0, false, err
	}
	i, found := slices.BinarySearchFunc(l.items, item, cmp)
	return i, found, nil
}

// GetRange returns a copy of count elements starting at index.
func (l *List[T]) GetRange(index, count int) ([]T, error) {
	const site = "locked.List.GetRange"
	if err := l.rlock(site); err != nil {
		return nil, err
	}
	defer l.mu.RUnlock()
	if err := collections.CheckRange(site, index, count, len(l.items)); err != nil {
		return nil, err
	}
	return slices.Clone(l.items[index : index+count]), nil
}

// Reverse reverses the order of the elements.
func (l *List[T]) Reverse() error {
	if err := l.lock("locked.List.Reverse"); err != nil {
		return err
	}
	defer l.mu.Unlock()
	slices.Reverse(l.items)
	return nil
}

// Sort sorts the list with the default comparer.
func (l *List[T]) Sort() error {
	const site = "locked.List.Sort"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if l.compare == nil {
		return collections.NewError(collections.KindInvalidOperation, site, "").
			WithDetails("no default comparer")
	}
	slices.SortFunc(l.items, l.compare)
	return nil
}

// SortFunc sorts the list with cmp. The sort is not stable.
func (l *List[T]) SortFunc(cmp func(a, b T) int) error {
	const site = "locked.List.SortFunc"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	if cmp == nil {
		return collections.NewError(collections.KindNullArgument, site, "cmp")
	}
	slices.SortFunc(l.items, cmp)
	return nil
}

// SortRange sorts count elements starting at index. A nil cmp uses the
// default comparer.
func (l *List[T]) SortRange(index, count int, cmp func(a, b T) int) error {
	const site = "locked.List.SortRange"
	if err := l.lock(site); err != nil {
		return err
	}
	defer l.mu.Unlock()
	cmp, err := l.comparer(site, cmp)
	if err != nil {
		return err
	}
	if err := collections.CheckRange(site, index, count, len(l.items)); err != nil {
		return err
	}
	slices.SortFunc(l.items[index:index+count], cmp)
	return nil
}

// CopyTo copies the list into dst starting at offset.
func (l *List[T]) CopyTo(dst []T, offset int) error {
	const site = "locked.List.CopyTo"
	if err := l.rlock(site); err != nil {
		return err
	}
	defer l.mu.RUnlock()
	if err := collections.CheckCopyTo(site, dst == nil, len(dst), offset, len(l.items)); err != nil {
		return err
	}
	copy(dst[offset:], l.items)
	return nil
}

// ToSlice returns a copy of the elements.
func (l *List[T]) ToSlice() ([]T, error) {
	if err := l.rlock("locked.List.ToSlice"); err != nil {
		return nil, err
	}
	defer l.mu.RUnlock()
	return slices.Clone(l.items), nil
}

// Range calls fn for each element while holding the read lock, stopping
// early when fn returns false. The lock is released on every exit path,
// including a panic in fn. fn may read the list but must not modify it.
func (l *List[T]) Range(fn func(index int, item T) bool) error {
	const site = "locked.List.Range"
	if err := l.rlock(site); err != nil {
		return err
	}
	defer l.mu.RUnlock()
	if fn == nil {
		return collections.NewError(collections.KindNullArgument, site, "fn")
	}
	for i, v := range l.items {
		if !fn(i, v) {
			break
		}
	}
	return nil
}

// Enumerate returns an enumerator that holds the read lock until it is
// exhausted or disposed. Writers block in the meantime, so callers must
// dispose abandoned enumerators.
func (l *List[T]) Enumerate() (collections.Enumerator[T], error) {
	const site = "locked.List.Enumerate"
	if err := l.rlock(site); err != nil {
		return nil, err
	}
	return newScopedEnumerator(&l.mu, site, l.isDisposed, func() cursor[T] {
		i := 0
		return cursor[T]{
			next: func() (T, bool) {
				if i >= len(l.items) {
					var zero T
					return zero, false
				}
				v := l.items[i]
				i++
				return v, true
			},
			stop: func() {},
		}
	}), nil
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
