package untyped

import (
	"fmt"
	"reflect"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

// MapAdapter exposes a collections.Map[K, V] through methods taking any.
type MapAdapter[K comparable, V any] struct {
	m    collections.Map[K, V]
	key  converter[K]
	elem converter[V]
}

// NewMapAdapter wraps m. The adapter shares m's concurrency strategy.
func NewMapAdapter[K comparable, V any](m collections.Map[K, V]) (*MapAdapter[K, V], error) {
	if m == nil {
		return nil, collections.NewError(collections.KindNullArgument, "untyped.NewMapAdapter", "m")
	}
	return &MapAdapter[K, V]{m: m, key: newConverter[K](), elem: newConverter[V]()}, nil
}

// Unwrap returns the typed map.
func (a *MapAdapter[K, V]) Unwrap() collections.Map[K, V] {
	return a.m
}

// convertKey rejects nil keys with NullArgument and incompatible keys with
// TypeMismatch. A key that cannot be hashed, such as a slice stored in an
// interface-typed K, is incompatible too.
func (a *MapAdapter[K, V]) convertKey(site string, key any) (K, error) {
	var zero K
	if collections.IsNil(key) {
		return zero, collections.NewError(collections.KindNullArgument, site, "key")
	}
	k, err := a.key.convert(site, "key", key)
	if err != nil {
		return zero, err
	}
	if !hashable(key) {
		return zero, collections.NewError(collections.KindTypeMismatch, site, "key").
			WithDetails(fmt.Sprintf("key of type %T is not comparable", key))
	}
	return k, nil
}

// lookupKey reports whether key could ever be stored in the map. Lookups
// treat any other key as absent.
func (a *MapAdapter[K, V]) lookupKey(key any) bool {
	return a.key.compatible(key) && hashable(key)
}

// hashable reports whether v can be used as a map key without panicking.
// Interface and struct values are checked down to their dynamic contents.
func hashable(v any) bool {
	return reflect.ValueOf(v).Comparable()
}

// Count returns the number of entries.
func (a *MapAdapter[K, V]) Count() (int, error) {
	return a.m.Count()
}

// Get returns the value stored for key.
func (a *MapAdapter[K, V]) Get(key any) (any, error) {
	k, err := a.convertKey("untyped.MapAdapter.Get", key)
	if err != nil {
		return nil, err
	}
	v, err := a.m.Get(k)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// TryGet returns the value stored for key and whether it was present. A key
// of an incompatible type is reported as absent.
func (a *MapAdapter[K, V]) TryGet(key any) (any, bool, error) {
	const site = "untyped.MapAdapter.TryGet"
	if collections.IsNil(key) {
		return nil, false, collections.NewError(collections.KindNullArgument, site, "key")
	}
	if !a.lookupKey(key) {
		return nil, false, nil
	}
	k, err := a.key.convert(site, "key", key)
	if err != nil {
		return nil, false, err
	}
	v, ok, err := a.m.TryGet(k)
	if err != nil || !ok {
		return nil, false, err
	}
	return v, true, nil
}

// Set adds or replaces the entry after checking both types.
func (a *MapAdapter[K, V]) Set(key, value any) error {
	const site = "untyped.MapAdapter.Set"
	k, err := a.convertKey(site, key)
	if err != nil {
		return err
	}
	v, err := a.elem.convert(site, "value", value)
	if err != nil {
		return err
	}
	return a.m.Set(k, v)
}

// Add adds the entry after checking both types and fails with DuplicateKey
// if key is already present.
func (a *MapAdapter[K, V]) Add(key, value any) error {
	const site = "untyped.MapAdapter.Add"
	k, err := a.convertKey(site, key)
	if err != nil {
		return err
	}
	v, err := a.elem.convert(site, "value", value)
	if err != nil {
		return err
	}
	return a.m.Add(k, v)
}

// Remove deletes key and reports whether it was present.
func (a *MapAdapter[K, V]) Remove(key any) (bool, error) {
	const site = "untyped.MapAdapter.Remove"
	if collections.IsNil(key) {
		return false, collections.NewError(collections.KindNullArgument, site, "key")
	}
	if !a.lookupKey(key) {
		return false, nil
	}
	k, err := a.key.convert(site, "key", key)
	if err != nil {
		return false, err
	}
	return a.m.Remove(k)
}

// ContainsKey reports whether key is present.
func (a *MapAdapter[K, V]) ContainsKey(key any) (bool, error) {
	const site = "untyped.MapAdapter.ContainsKey"
	if collections.IsNil(key) {
		return false, collections.NewError(collections.KindNullArgument, site, "key")
	}
	if !a.lookupKey(key) {
		return false, nil
	}
	k, err := a.key.convert(site, "key", key)
	if err != nil {
		return false, err
	}
	return a.m.ContainsKey(k)
}

// Keys returns the keys as any.
func (a *MapAdapter[K, V]) Keys() ([]any, error) {
	keys, err := a.m.Keys()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
}

// Values returns the values as any.
func (a *MapAdapter[K, V]) Values() ([]any, error) {
	values, err := a.m.Values()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out, nil
}

// Clear removes all entries.
func (a *MapAdapter[K, V]) Clear() error {
	return a.m.Clear()
}

// Enumerate returns an enumerator yielding untyped pairs.
func (a *MapAdapter[K, V]) Enumerate() (collections.Enumerator[collections.Pair[any, any]], error) {
	e, err := a.m.Enumerate()
	if err != nil {
		return nil, err
	}
	return boxedPairs[K, V]{e}, nil
}

type boxedPairs[K comparable, V any] struct {
	collections.Enumerator[collections.Pair[K, V]]
}

func (b boxedPairs[K, V]) Current() collections.Pair[any, any] {
	p := b.Enumerator.Current()
	return collections.Pair[any, any]{Key: p.Key, Value: p.Value}
}

// CopyTo copies the entries into dst starting at offset, each boxed as a
// collections.Pair[any, any].
func (a *MapAdapter[K, V]) CopyTo(dst []any, offset int) error {
	var pairs []any
	if err := a.m.Range(func(k K, v V) bool {
		pairs = append(pairs, collections.Pair[any, any]{Key: k, Value: v})
		return true
	}); err != nil {
		return err
	}
	if err := collections.CheckCopyTo("untyped.MapAdapter.CopyTo", dst == nil, len(dst), offset, len(pairs)); err != nil {
		return err
	}
	copy(dst[offset:], pairs)
	return nil
}
