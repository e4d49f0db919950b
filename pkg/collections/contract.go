package collections

import (
	"cmp"
	"fmt"
	"reflect"
)

// Pair is one key/value entry of a Map.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// String formats the pair as "[key, value]".
func (p Pair[K, V]) String() string {
	return fmt.Sprintf("[%v, %v]", p.Key, p.Value)
}

// Enumerator is a forward cursor over a container.
//
// MoveNext advances to the next element and reports whether there is one.
// Current returns the element at the cursor; before the first MoveNext or
// after the end it returns the zero value. Dispose releases whatever the
// enumerator holds and may be called any number of times.
//
// An Enumerator is not safe for concurrent use.
type Enumerator[T any] interface {
	MoveNext() bool
	Current() T
	Reset() error
	Dispose()
}

// List is an ordered sequence of elements addressed by index.
type List[T comparable] interface {
	Count() (int, error)
	Get(index int) (T, error)
	Set(index int, item T) error
	Add(item T) error
	AddRange(items []T) error
	Insert(index int, item T) error
	InsertRange(index int, items []T) error
	Remove(item T) (bool, error)
	RemoveAt(index int) error
	RemoveRange(index, count int) error
	RemoveAll(match func(T) bool) (int, error)
	Clear() error
	Contains(item T) (bool, error)
	IndexOf(item T) (int, error)
	LastIndexOf(item T) (int, error)
	Find(match func(T) bool) (T, bool, error)
	FindIndex(match func(T) bool) (int, error)
	FindAll(match func(T) bool) ([]T, error)
	BinarySearch(item T, cmp func(a, b T) int) (int, bool, error)
	GetRange(index, count int) ([]T, error)
	Reverse() error
	Sort() error
	SortFunc(cmp func(a, b T) int) error
	SortRange(index, count int, cmp func(a, b T) int) error
	CopyTo(dst []T, offset int) error
	ToSlice() ([]T, error)
	Range(fn func(index int, item T) bool) error
	Enumerate() (Enumerator[T], error)
}

// Map is a mapping from unique keys to values. Iteration order is unspecified.
type Map[K comparable, V any] interface {
	Count() (int, error)
	Get(key K) (V, error)
	TryGet(key K) (V, bool, error)
	Set(key K, value V) error
	Add(key K, value V) error
	Remove(key K) (bool, error)
	ContainsKey(key K) (bool, error)
	Keys() ([]K, error)
	Values() ([]V, error)
	Clear() error
	CopyTo(dst []Pair[K, V], offset int) error
	Range(fn func(key K, value V) bool) error
	Enumerate() (Enumerator[Pair[K, V]], error)
}

// Option configures a List.
type Option[T any] func(*Options[T])

// Options holds the settings shared by both List implementations.
type Options[T any] struct {
	// Compare is the default comparer used by Sort. Nil means Sort fails
	// with InvalidOperation.
	Compare func(a, b T) int
	// Capacity preallocates the backing slice.
	Capacity int
}

// WithComparer sets the default comparer used by Sort.
func WithComparer[T any](compare func(a, b T) int) Option[T] {
	return func(o *Options[T]) {
		o.Compare = compare
	}
}

// WithCapacity preallocates room for n elements.
func WithCapacity[T any](n int) Option[T] {
	return func(o *Options[T]) {
		if n > 0 {
			o.Capacity = n
		}
	}
}

// ApplyOptions folds opts into an Options value.
func ApplyOptions[T any](opts ...Option[T]) Options[T] {
	var o Options[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Ordered returns the option that installs cmp.Compare as the default comparer.
func Ordered[T cmp.Ordered]() Option[T] {
	return WithComparer(cmp.Compare[T])
}

// KeyCheck reports whether keys of type K can be nil. Containers use it to
// decide once, at construction, whether keys need a nil check.
func KeyCheck[K comparable]() bool {
	return Nillable(reflect.TypeFor[K]())
}
