package untyped

import (
	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

// ListAdapter exposes a collections.List[T] through methods taking any.
type ListAdapter[T comparable] struct {
	list collections.List[T]
	conv converter[T]
}

// NewListAdapter wraps list. The adapter shares list's concurrency strategy.
func NewListAdapter[T comparable](list collections.List[T]) (*ListAdapter[T], error) {
	if list == nil {
		return nil, collections.NewError(collections.KindNullArgument, "untyped.NewListAdapter", "list")
	}
	return &ListAdapter[T]{list: list, conv: newConverter[T]()}, nil
}

// Unwrap returns the typed list.
func (a *ListAdapter[T]) Unwrap() collections.List[T] {
	return a.list
}

// IsCompatible reports whether v can be stored in the list.
func (a *ListAdapter[T]) IsCompatible(v any) bool {
	return a.conv.compatible(v)
}

// Count returns the number of elements.
func (a *ListAdapter[T]) Count() (int, error) {
	return a.list.Count()
}

// Get returns the element at index.
func (a *ListAdapter[T]) Get(index int) (any, error) {
	v, err := a.list.Get(index)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set replaces the element at index after checking v's type.
func (a *ListAdapter[T]) Set(index int, v any) error {
	item, err := a.conv.convert("untyped.ListAdapter.Set", "value", v)
	if err != nil {
		return err
	}
	return a.list.Set(index, item)
}

// Add appends v after checking its type. It returns the index v was added at.
// The index is only exact when no other goroutine adds concurrently.
func (a *ListAdapter[T]) Add(v any) (int, error) {
	item, err := a.conv.convert("untyped.ListAdapter.Add", "value", v)
	if err != nil {
		return -1, err
	}
	if err := a.list.Add(item); err != nil {
		return -1, err
	}
	n, err := a.list.Count()
	if err != nil {
		return -1, err
	}
	return n - 1, nil
}

// Insert inserts v at index after checking its type.
func (a *ListAdapter[T]) Insert(index int, v any) error {
	item, err := a.conv.convert("untyped.ListAdapter.Insert", "value", v)
	if err != nil {
		return err
	}
	return a.list.Insert(index, item)
}

// Remove removes the first occurrence of v. A value of an incompatible type
// cannot be in the list, so it is reported as not found.
func (a *ListAdapter[T]) Remove(v any) (bool, error) {
	if !a.conv.compatible(v) {
		return false, nil
	}
	item, err := a.conv.convert("untyped.ListAdapter.Remove", "value", v)
	if err != nil {
		return false, err
	}
	return a.list.Remove(item)
}

// RemoveAt removes the element at index.
func (a *ListAdapter[T]) RemoveAt(index int) error {
	return a.list.RemoveAt(index)
}

// Contains reports whether v is in the list.
func (a *ListAdapter[T]) Contains(v any) (bool, error) {
	if !a.conv.compatible(v) {
		return false, nil
	}
	item, err := a.conv.convert("untyped.ListAdapter.Contains", "value", v)
	if err != nil {
		return false, err
	}
	return a.list.Contains(item)
}

// IndexOf returns the index of the first occurrence of v, or -1.
func (a *ListAdapter[T]) IndexOf(v any) (int, error) {
	if !a.conv.compatible(v) {
		return -1, nil
	}
	item, err := a.conv.convert("untyped.ListAdapter.IndexOf", "value", v)
	if err != nil {
		return -1, err
	}
	return a.list.IndexOf(item)
}

// Clear removes all elements.
func (a *ListAdapter[T]) Clear() error {
	return a.list.Clear()
}

// CopyTo copies the elements into dst starting at offset.
func (a *ListAdapter[T]) CopyTo(dst []any, offset int) error {
	items, err := a.list.ToSlice()
	if err != nil {
		return err
	}
	if err := collections.CheckCopyTo("untyped.ListAdapter.CopyTo", dst == nil, len(dst), offset, len(items)); err != nil {
		return err
	}
	for i, v := range items {
		dst[offset+i] = v
	}
	return nil
}

// Enumerate returns an enumerator yielding the elements as any.
func (a *ListAdapter[T]) Enumerate() (collections.Enumerator[any], error) {
	e, err := a.list.Enumerate()
	if err != nil {
		return nil, err
	}
	return boxed[T]{e}, nil
}

// boxed converts a typed enumerator into an untyped one.
type boxed[T any] struct {
	collections.Enumerator[T]
}

func (b boxed[T]) Current() any {
	return b.Enumerator.Current()
}
