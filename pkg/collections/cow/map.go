package cow

import (
	"errors"
	"iter"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

var _ collections.Map[string, int] = (*Map[string, int])(nil)

// Map is a copy-on-write map.
//
// Writers clone the whole map under mu and publish the clone with one
// atomic store; readers load the current map and never lock.
type Map[K comparable, V any] struct {
	mu       sync.Mutex
	items    atomic.Pointer[map[K]V]
	version  atomic.Uint64
	nilKeyOK bool // false when K can hold nil and nil keys must be rejected
}

// NewMap creates an empty map.
func NewMap[K comparable, V any]() *Map[K, V] {
	m := &Map[K, V]{nilKeyOK: !collections.KeyCheck[K]()}
	items := make(map[K]V)
	m.items.Store(&items)
	return m
}

// NewMapFrom creates a map holding a copy of src. A nil key in src is
// rejected with NullArgument.
func NewMapFrom[K comparable, V any](src map[K]V) (*Map[K, V], error) {
	m := &Map[K, V]{nilKeyOK: !collections.KeyCheck[K]()}
	items := make(map[K]V, len(src))
	for k, v := range src {
		if err := m.checkKey("cow.NewMapFrom", k); err != nil {
			return nil, err
		}
		items[k] = v
	}
	m.items.Store(&items)
	return m, nil
}

func (m *Map[K, V]) snapshot() map[K]V {
	return *m.items.Load()
}

func (m *Map[K, V]) checkKey(site string, key K) error {
	if m.nilKeyOK {
		return nil
	}
	return collections.CheckNotNil(site, "key", key)
}

// mutate clones the current map, applies fn and publishes the result.
func (m *Map[K, V]) mutate(fn func(items map[K]V) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := maps.Clone(m.snapshot())
	if clone == nil {
		clone = make(map[K]V)
	}
	if err := fn(clone); err != nil {
		return err
	}
	m.publish(clone)
	return nil
}

// publish must be called with mu held.
func (m *Map[K, V]) publish(items map[K]V) {
	m.items.Store(&items)
	m.version.Add(1)
}

// Version returns the number of snapshots published since construction.
func (m *Map[K, V]) Version() uint64 {
	return m.version.Load()
}

// Count returns the number of entries in the current snapshot.
func (m *Map[K, V]) Count() (int, error) {
	return len(m.snapshot()), nil
}

// Get returns the value for key, or a KeyNotFound error.
func (m *Map[K, V]) Get(key K) (V, error) {
	const site = "cow.Map.Get"
	var zero V
	if err := m.checkKey(site, key); err != nil {
		return zero, err
	}
	v, ok := m.snapshot()[key]
	if !ok {
		return zero, collections.KeyNotFound(site, key)
	}
	return v, nil
}

// TryGet returns the value for key and whether it was present.
func (m *Map[K, V]) TryGet(key K) (V, bool, error) {
	var zero V
	if err := m.checkKey("cow.Map.TryGet", key); err != nil {
		return zero, false, err
	}
	v, ok := m.snapshot()[key]
	return v, ok, nil
}

// Set adds key or replaces its value.
func (m *Map[K, V]) Set(key K, value V) error {
	if err := m.checkKey("cow.Map.Set", key); err != nil {
		return err
	}
	return m.mutate(func(items map[K]V) error {
		items[key] = value
		return nil
	})
}

// Add adds key and fails with DuplicateKey if it is already present. On
// failure nothing is published.
func (m *Map[K, V]) Add(key K, value V) error {
	const site = "cow.Map.Add"
	if err := m.checkKey(site, key); err != nil {
		return err
	}
	if _, ok := m.snapshot()[key]; ok {
		return collections.DuplicateKey(site, key)
	}
	return m.mutate(func(items map[K]V) error {
		if _, ok := items[key]; ok {
			return collections.DuplicateKey(site, key)
		}
		items[key] = value
		return nil
	})
}

// Remove deletes key and reports whether it was present.
func (m *Map[K, V]) Remove(key K) (bool, error) {
	if err := m.checkKey("cow.Map.Remove", key); err != nil {
		return false, err
	}
	if _, ok := m.snapshot()[key]; !ok {
		return false, nil
	}
	err := m.mutate(func(items map[K]V) error {
		if _, ok := items[key]; !ok {
			return errNoChange
		}
		delete(items, key)
		return nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return err == nil, err
}

// ContainsKey reports whether key is present in the current snapshot.
func (m *Map[K, V]) ContainsKey(key K) (bool, error) {
	if err := m.checkKey("cow.Map.ContainsKey", key); err != nil {
		return false, err
	}
	_, ok := m.snapshot()[key]
	return ok, nil
}

// Keys returns the keys of the current snapshot.
func (m *Map[K, V]) Keys() ([]K, error) {
	items := m.snapshot()
	keys := make([]K, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Values returns the values of the current snapshot.
func (m *Map[K, V]) Values() ([]V, error) {
	items := m.snapshot()
	values := make([]V, 0, len(items))
	for _, v := range items {
		values = append(values, v)
	}
	return values, nil
}

// Clear publishes a fresh empty map.
func (m *Map[K, V]) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publish(make(map[K]V))
	return nil
}

// CopyTo copies the entries of the current snapshot into dst starting at offset.
func (m *Map[K, V]) CopyTo(dst []collections.Pair[K, V], offset int) error {
	items := m.snapshot()
	if err := collections.CheckCopyTo("cow.Map.CopyTo", dst == nil, len(dst), offset, len(items)); err != nil {
		return err
	}
	i := offset
	for k, v := range items {
		dst[i] = collections.Pair[K, V]{Key: k, Value: v}
		i++
	}
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (m *Map[K, V]) Snapshot() map[K]V {
	return maps.Clone(m.snapshot())
}

// Range calls fn for each entry of the snapshot current at the time of the
// call, stopping early when fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) error {
	if fn == nil {
		return collections.NewError(collections.KindNullArgument, "cow.Map.Range", "fn")
	}
	for k, v := range m.snapshot() {
		if !fn(k, v) {
			break
		}
	}
	return nil
}

// All returns an iterator over the snapshot current when iteration starts.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range m.snapshot() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Enumerate returns an enumerator over the current snapshot.
func (m *Map[K, V]) Enumerate() (collections.Enumerator[collections.Pair[K, V]], error) {
	items := m.snapshot()
	pairs := make([]collections.Pair[K, V], 0, len(items))
	for k, v := range items {
		pairs = append(pairs, collections.Pair[K, V]{Key: k, Value: v})
	}
	return newSnapshotEnumerator(pairs), nil
}
