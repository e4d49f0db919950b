package cow

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"testing"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

func TestMap_SetGetRemove(t *testing.T) {
	m := NewMap[string, int]()

	if err := m.Set("a", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := m.Set("a", 2); err != nil {
		t.Fatalf("Set(replace) error = %v", err)
	}

	v, err := m.Get("a")
	if err != nil || v != 2 {
		t.Errorf("Get(a) = (%d, %v), want (2, nil)", v, err)
	}

	if _, err := m.Get("missing"); !errors.Is(err, collections.ErrKeyNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrKeyNotFound", err)
	}

	v, ok, err := m.TryGet("missing")
	if err != nil || ok || v != 0 {
		t.Errorf("TryGet(missing) = (%d, %v, %v)", v, ok, err)
	}

	removed, err := m.Remove("a")
	if err != nil || !removed {
		t.Errorf("Remove(a) = (%v, %v), want (true, nil)", removed, err)
	}
	removed, _ = m.Remove("a")
	if removed {
		t.Error("second Remove(a) should report false")
	}
}

func TestMap_AddDuplicate(t *testing.T) {
	m, err := NewMapFrom(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("NewMapFrom() error = %v", err)
	}
	before := m.Snapshot()
	version := m.Version()

	if err := m.Add("a", 100); !errors.Is(err, collections.ErrDuplicateKey) {
		t.Fatalf("Add(duplicate) error = %v, want ErrDuplicateKey", err)
	}

	if !maps.Equal(m.Snapshot(), before) {
		t.Errorf("map changed after failed Add: %v", m.Snapshot())
	}
	if m.Version() != version {
		t.Error("failed Add must not publish a snapshot")
	}
	if n, _ := m.Count(); n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}

	if err := m.Add("c", 3); err != nil {
		t.Errorf("Add(c) error = %v", err)
	}
}

func TestMap_NilKeys(t *testing.T) {
	m := NewMap[any, int]()

	if err := m.Set(nil, 1); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("Set(nil) error = %v, want ErrNullArgument", err)
	}
	if err := m.Add(nil, 1); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("Add(nil) error = %v, want ErrNullArgument", err)
	}
	if _, err := m.ContainsKey(nil); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("ContainsKey(nil) error = %v, want ErrNullArgument", err)
	}
	if _, err := NewMapFrom(map[any]int{nil: 1}); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("NewMapFrom(nil key) error = %v, want ErrNullArgument", err)
	}

	if err := m.Set("ok", 1); err != nil {
		t.Errorf("Set(ok) error = %v", err)
	}
}

func TestMap_KeysValuesCopyTo(t *testing.T) {
	m, _ := NewMapFrom(map[int]string{1: "a", 2: "b"})

	keys, _ := m.Keys()
	values, _ := m.Values()
	if len(keys) != 2 || len(values) != 2 {
		t.Fatalf("Keys()=%v Values()=%v", keys, values)
	}

	dst := make([]collections.Pair[int, string], 3)
	if err := m.CopyTo(dst, 1); err != nil {
		t.Fatalf("CopyTo() error = %v", err)
	}
	got := map[int]string{dst[1].Key: dst[1].Value, dst[2].Key: dst[2].Value}
	if !maps.Equal(got, map[int]string{1: "a", 2: "b"}) {
		t.Errorf("CopyTo wrote %v", dst)
	}

	if err := m.CopyTo(make([]collections.Pair[int, string], 1), 0); !errors.Is(err, collections.ErrInvalidRange) {
		t.Errorf("too small: error = %v, want ErrInvalidRange", err)
	}
	if err := m.CopyTo(nil, 0); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("nil dst: error = %v, want ErrNullArgument", err)
	}
	if err := m.CopyTo(dst, -1); !errors.Is(err, collections.ErrRange) {
		t.Errorf("negative offset: error = %v, want ErrRange", err)
	}
}

func TestMap_EnumerateSnapshot(t *testing.T) {
	m, _ := NewMapFrom(map[string]int{"a": 1, "b": 2})

	e, _ := m.Enumerate()
	_ = m.Set("c", 3)
	_ = m.Clear()

	got := make(map[string]int)
	for _, p := range collect(t, e) {
		got[p.Key] = p.Value
	}
	if !maps.Equal(got, map[string]int{"a": 1, "b": 2}) {
		t.Errorf("enumeration = %v, want the snapshot taken before the writes", got)
	}

	if n, _ := m.Count(); n != 0 {
		t.Errorf("Count() after Clear = %d, want 0", n)
	}
}

func TestMap_RangeAndAll(t *testing.T) {
	m, _ := NewMapFrom(map[int]int{1: 10, 2: 20, 3: 30})

	sum := 0
	if err := m.Range(func(_ int, v int) bool { sum += v; return true }); err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if sum != 60 {
		t.Errorf("Range sum = %d, want 60", sum)
	}

	count := 0
	for range m.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("All() early break visited %d entries", count)
	}
}

func TestMap_ConcurrentAddRemove(t *testing.T) {
	m := NewMap[string, int]()
	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	added, removed, duplicates := 0, 0, 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// Workers share half of their keys so Add races on duplicates.
				key := fmt.Sprintf("k%d", (w%(workers/2))*perWorker+i)
				err := m.Add(key, i)
				mu.Lock()
				switch {
				case err == nil:
					added++
				case errors.Is(err, collections.ErrDuplicateKey):
					duplicates++
				default:
					t.Errorf("Add(%s) error = %v", key, err)
				}
				mu.Unlock()

				if i%4 == 0 {
					if ok, _ := m.Remove(key); ok {
						mu.Lock()
						removed++
						mu.Unlock()
					}
				}
			}
		}(w)
	}
	wg.Wait()

	n, _ := m.Count()
	if n != added-removed {
		t.Errorf("Count() = %d, want %d (added %d, removed %d, duplicates %d)",
			n, added-removed, added, removed, duplicates)
	}
}
