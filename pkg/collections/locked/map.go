package locked

import (
	"iter"
	"maps"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

var _ collections.Map[string, int] = (*Map[string, int])(nil)

// Map is a map guarded by a single reader/writer lock.
//
// A Map must be disposed exactly once when no longer needed; every call
// after Dispose fails with UsedAfterDispose.
type Map[K comparable, V any] struct {
	mu       rwlock
	items    map[K]V
	nilKeyOK bool
	disposed bool
}

// NewMap creates an empty map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		items:    make(map[K]V),
		nilKeyOK: !collections.KeyCheck[K](),
	}
}

// NewMapFrom creates a map holding a copy of src. A nil key in src is
// rejected with NullArgument.
func NewMapFrom[K comparable, V any](src map[K]V) (*Map[K, V], error) {
	m := &Map[K, V]{
		items:    make(map[K]V, len(src)),
		nilKeyOK: !collections.KeyCheck[K](),
	}
	for k, v := range src {
		if err := m.checkKey("locked.NewMapFrom", k); err != nil {
			return nil, err
		}
		m.items[k] = v
	}
	return m, nil
}

func (m *Map[K, V]) checkKey(site string, key K) error {
	if m.nilKeyOK {
		return nil
	}
	return collections.CheckNotNil(site, "key", key)
}

func (m *Map[K, V]) rlock(site string) error {
	m.mu.RLock()
	if m.disposed {
		m.mu.RUnlock()
		return collections.Disposed(site)
	}
	return nil
}

func (m *Map[K, V]) lock(site string) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return collections.Disposed(site)
	}
	return nil
}

func (m *Map[K, V]) isDisposed() bool {
	return m.disposed
}

// Dispose releases the map's storage. Later calls are no-ops.
func (m *Map[K, V]) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	m.items = nil
}

// Close disposes the map. It implements io.Closer and always returns nil.
func (m *Map[K, V]) Close() error {
	m.Dispose()
	return nil
}

// Disposed reports whether Dispose has been called.
func (m *Map[K, V]) Disposed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disposed
}

// Count returns the number of entries.
func (m *Map[K, V]) Count() (int, error) {
	if err := m.rlock("locked.Map.Count"); err != nil {
		return 0, err
	}
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// Get returns the value for key, or a KeyNotFound error.
func (m *Map[K, V]) Get(key K) (V, error) {
	const site = "locked.Map.Get"
	var zero V
	if err := m.rlock(site); err != nil {
		return zero, err
	}
	defer m.mu.RUnlock()
	if err := m.checkKey(site, key); err != nil {
		return zero, err
	}
	v, ok := m.items[key]
	if !ok {
		return zero, collections.KeyNotFound(site, key)
	}
	return v, nil
}

// TryGet returns the value for key and whether it was present.
func (m *Map[K, V]) TryGet(key K) (V, bool, error) {
	const site = "locked.Map.TryGet"
	var zero V
	if err := m.rlock(site); err != nil {
		return zero, false, err
	}
	defer m.mu.RUnlock()
	if err := m.checkKey(site, key); err != nil {
		return zero, false, err
	}
	v, ok := m.items[key]
	return v, ok, nil
}

// Set adds key or replaces its value.
func (m *Map[K, V]) Set(key K, value V) error {
	const site = "locked.Map.Set"
	if err := m.lock(site); err != nil {
		return err
	}
	defer m.mu.Unlock()
	if err := m.checkKey(site, key); err != nil {
		return err
	}
	m.items[key] = value
	return nil
}

// Add adds key and fails with DuplicateKey if it is already present.
func (m *Map[K, V]) Add(key K, value V) error {
	const site = "locked.Map.Add"
	if err := m.lock(site); err != nil {
		return err
	}
	defer m.mu.Unlock()
	if err := m.checkKey(site, key); err != nil {
		return err
	}
	if _, ok := m.items[key]; ok {
		return collections.DuplicateKey(site, key)
	}
	m.items[key] = value
	return nil
}

// Remove deletes key and reports whether it was present.
func (m *Map[K, V]) Remove(key K) (bool, error) {
	const site = "locked.Map.Remove"
	if err := m.lock(site); err != nil {
		return false, err
	}
	defer m.mu.Unlock()
	if err := m.checkKey(site, key); err != nil {
		return false, err
	}
	if _, ok := m.items[key]; !ok {
		return false, nil
	}
	delete(m.items, key)
	return true, nil
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) (bool, error) {
	const site = "locked.Map.ContainsKey"
	if err := m.rlock(site); err != nil {
		return false, err
	}
	defer m.mu.RUnlock()
	if err := m.checkKey(site, key); err != nil {
		return false, err
	}
	_, ok := m.items[key]
	return ok, nil
}

// Keys returns the keys.
func (m *Map[K, V]) Keys() ([]K, error) {
	if err := m.rlock("locked.Map.Keys"); err != nil {
		return nil, err
	}
	defer m.mu.RUnlock()
	keys := make([]K, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Values returns the values.
func (m *Map[K, V]) Values() ([]V, error) {
	if err := m.rlock("locked.Map.Values"); err != nil {
		return nil, err
	}
	defer m.mu.RUnlock()
	values := make([]V, 0, len(m.items))
	for _, v := range m.items {
		values = append(values, v)
	}
	return values, nil
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() error {
	if err := m.lock("locked.Map.Clear"); err != nil {
		return err
	}
	defer m.mu.Unlock()
	clear(m.items)
	return nil
}

// CopyTo copies the entries into dst starting at offset.
func (m *Map[K, V]) CopyTo(dst []collections.Pair[K, V], offset int) error {
	const site = "locked.Map.CopyTo"
	if err := m.rlock(site); err != nil {
		return err
	}
	defer m.mu.RUnlock()
	if err := collections.CheckCopyTo(site, dst == nil, len(dst), offset, len(m.items)); err != nil {
		return err
	}
	i := offset
	for k, v := range m.items {
		dst[i] = collections.Pair[K, V]{Key: k, Value: v}
		i++
	}
	return nil
}

// Snapshot returns a copy of the entries.
func (m *Map[K, V]) Snapshot() (map[K]V, error) {
	if err := m.rlock("locked.Map.Snapshot"); err != nil {
		return nil, err
	}
	defer m.mu.RUnlock()
	return maps.Clone(m.items), nil
}

// Range calls fn for each entry while holding the read lock, stopping early
// when fn returns false. fn may read the map but must not modify it.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) error {
	const site = "locked.Map.Range"
	if err := m.rlock(site); err != nil {
		return err
	}
	defer m.mu.RUnlock()
	if fn == nil {
		return collections.NewError(collections.KindNullArgument, site, "fn")
	}
	for k, v := range m.items {
		if !fn(k, v) {
			break
		}
	}
	return nil
}

// Enumerate returns an enumerator that holds the read lock until it is
// exhausted or disposed.
func (m *Map[K, V]) Enumerate() (collections.Enumerator[collections.Pair[K, V]], error) {
	const site = "locked.Map.Enumerate"
	if err := m.rlock(site); err != nil {
		return nil, err
	}
	return newScopedEnumerator(&m.mu, site, m.isDisposed, func() cursor[collections.Pair[K, V]] {
		next, stop := iter.Pull2(maps.All(m.items))
		return cursor[collections.Pair[K, V]]{
			next: func() (collections.Pair[K, V], bool) {
				k, v, ok := next()
				return collections.Pair[K, V]{Key: k, Value: v}, ok
			},
			stop: stop,
		}
	}), nil
}
