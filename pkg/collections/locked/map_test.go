package locked

import (
	"errors"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

func TestMap_Basic(t *testing.T) {
	m := NewMap[string, int]()
	defer m.Dispose()

	if err := m.Add("a", 1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := m.Set("b", 2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, err := m.Get("b")
	if err != nil || v != 2 {
		t.Errorf("Get(b) = (%d, %v)", v, err)
	}
	if _, err := m.Get("zz"); !errors.Is(err, collections.ErrKeyNotFound) {
		t.Errorf("Get(zz) error = %v, want ErrKeyNotFound", err)
	}
	if _, ok, _ := m.TryGet("zz"); ok {
		t.Error("TryGet(zz) should be absent")
	}
	if ok, _ := m.ContainsKey("a"); !ok {
		t.Error("ContainsKey(a) should be true")
	}

	snap, _ := m.Snapshot()
	if !maps.Equal(snap, map[string]int{"a": 1, "b": 2}) {
		t.Errorf("Snapshot() = %v", snap)
	}

	if ok, _ := m.Remove("a"); !ok {
		t.Error("Remove(a) should be true")
	}
	if ok, _ := m.Remove("a"); ok {
		t.Error("second Remove(a) should be false")
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _ := m.Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestMap_AddDuplicate(t *testing.T) {
	m, err := NewMapFrom(map[int]string{1: "one"})
	if err != nil {
		t.Fatalf("NewMapFrom() error = %v", err)
	}
	defer m.Dispose()

	if err := m.Add(1, "uno"); !errors.Is(err, collections.ErrDuplicateKey) {
		t.Fatalf("Add(duplicate) error = %v, want ErrDuplicateKey", err)
	}
	snap, _ := m.Snapshot()
	if !maps.Equal(snap, map[int]string{1: "one"}) {
		t.Errorf("map changed after failed Add: %v", snap)
	}
}

func TestMap_NilKey(t *testing.T) {
	m := NewMap[*int, int]()
	defer m.Dispose()

	if err := m.Add(nil, 1); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("Add(nil) error = %v, want ErrNullArgument", err)
	}
	if _, err := m.Get(nil); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("Get(nil) error = %v, want ErrNullArgument", err)
	}
	x := 1
	if err := m.Add(&x, 1); err != nil {
		t.Errorf("Add(&x) error = %v", err)
	}
}

func TestMap_CopyToKeysValues(t *testing.T) {
	m, _ := NewMapFrom(map[string]int{"a": 1, "b": 2})
	defer m.Dispose()

	keys, _ := m.Keys()
	values, _ := m.Values()
	if len(keys) != 2 || len(values) != 2 {
		t.Errorf("Keys()=%v Values()=%v", keys, values)
	}

	dst := make([]collections.Pair[string, int], 2)
	if err := m.CopyTo(dst, 0); err != nil {
		t.Fatalf("CopyTo() error = %v", err)
	}
	if err := m.CopyTo(dst, 1); !errors.Is(err, collections.ErrInvalidRange) {
		t.Errorf("CopyTo(offset 1) error = %v, want ErrInvalidRange", err)
	}
	if err := m.CopyTo(nil, 0); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("CopyTo(nil) error = %v, want ErrNullArgument", err)
	}
	if err := m.CopyTo(dst, -2); !errors.Is(err, collections.ErrRange) {
		t.Errorf("CopyTo(-2) error = %v, want ErrRange", err)
	}
}

func TestMap_Dispose(t *testing.T) {
	m := NewMap[string, int]()
	m.Dispose()

	ops := map[string]func() error{
		"Add":         func() error { return m.Add("a", 1) },
		"Set":         func() error { return m.Set("a", 1) },
		"Remove":      func() error { _, err := m.Remove("a"); return err },
		"Clear":       func() error { return m.Clear() },
		"Get":         func() error { _, err := m.Get("a"); return err },
		"TryGet":      func() error { _, _, err := m.TryGet("a"); return err },
		"ContainsKey": func() error { _, err := m.ContainsKey("a"); return err },
		"Count":       func() error { _, err := m.Count(); return err },
		"Keys":        func() error { _, err := m.Keys(); return err },
		"Enumerate":   func() error { _, err := m.Enumerate(); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, collections.ErrUsedAfterDispose) {
			t.Errorf("%s after Dispose: error = %v, want ErrUsedAfterDispose", name, err)
		}
	}

	m.Dispose()
	if !m.Disposed() {
		t.Error("Disposed() should be true")
	}
}

func TestMap_DisposeWaitsForEnumerator(t *testing.T) {
	m, _ := NewMapFrom(map[string]int{"a": 1})

	e, _ := m.Enumerate()
	disposed := make(chan struct{})
	go func() {
		m.Dispose()
		close(disposed)
	}()

	select {
	case <-disposed:
		t.Fatal("Dispose completed while an enumerator was open")
	case <-time.After(50 * time.Millisecond):
	}

	if !e.MoveNext() || e.Current().Key != "a" {
		t.Errorf("Current() = %v", e.Current())
	}
	if e.MoveNext() {
		t.Error("MoveNext() should report the end")
	}

	select {
	case <-disposed:
	case <-time.After(5 * time.Second):
		t.Fatal("Dispose did not complete after enumeration finished")
	}
	e.Dispose()
}

func TestMap_EnumeratorBlocksWriters(t *testing.T) {
	m, _ := NewMapFrom(map[int]int{1: 1, 2: 2, 3: 3})
	defer m.Dispose()

	e, _ := m.Enumerate()
	e.MoveNext()

	setDone := make(chan struct{})
	go func() {
		_ = m.Set(4, 4)
		close(setDone)
	}()

	select {
	case <-setDone:
		t.Fatal("Set completed while an enumerator held the read lock")
	case <-time.After(50 * time.Millisecond):
	}

	seen := 1
	for e.MoveNext() {
		seen++
	}
	if seen != 3 {
		t.Errorf("enumerated %d entries, want 3", seen)
	}

	select {
	case <-setDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Set did not complete after enumeration was exhausted")
	}
	e.Dispose()

	if n, _ := m.Count(); n != 4 {
		t.Errorf("Count() = %d, want 4", n)
	}
}

func TestMap_EarlyDisposeStopsIteration(t *testing.T) {
	m, _ := NewMapFrom(map[int]int{1: 1, 2: 2, 3: 3})
	defer m.Dispose()

	e, _ := m.Enumerate()
	e.MoveNext()
	e.Dispose()

	if e.MoveNext() {
		t.Error("MoveNext() after Dispose should be false")
	}
	if err := m.Set(9, 9); err != nil {
		t.Errorf("Set after early Dispose error = %v", err)
	}
}

func TestMap_ConcurrentAddRemove(t *testing.T) {
	m := NewMap[int, int]()
	defer m.Dispose()

	const workers = 8
	const keys = 64

	var wg sync.WaitGroup
	var mu sync.Mutex
	added, removed := 0, 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 400; i++ {
				k := (w*7 + i) % keys
				if i%2 == 0 {
					if m.Add(k, i) == nil {
						mu.Lock()
						added++
						mu.Unlock()
					}
				} else {
					if ok, _ := m.Remove(k); ok {
						mu.Lock()
						removed++
						mu.Unlock()
					}
				}
			}
		}(w)
	}
	wg.Wait()

	if n, _ := m.Count(); n != added-removed {
		t.Errorf("Count() = %d, want %d", n, added-removed)
	}
}

func TestMap_DisposedBeforeArgumentChecks(t *testing.T) {
	m := NewMap[*int, int]()
	m.Dispose()

	tests := []struct {
		name string
		op   func() error
	}{
		{"Get(nil)", func() error { _, err := m.Get(nil); return err }},
		{"TryGet(nil)", func() error { _, _, err := m.TryGet(nil); return err }},
		{"Set(nil)", func() error { return m.Set(nil, 1) }},
		{"Add(nil)", func() error { return m.Add(nil, 1) }},
		{"Remove(nil)", func() error { _, err := m.Remove(nil); return err }},
		{"ContainsKey(nil)", func() error { _, err := m.ContainsKey(nil); return err }},
		{"Range(nil)", func() error { return m.Range(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, collections.ErrUsedAfterDispose) {
				t.Errorf("error = %v, want ErrUsedAfterDispose", err)
			}
		})
	}
}

func TestMap_ReadInsideRangeWithQueuedWriter(t *testing.T) {
	m, _ := NewMapFrom(map[string]int{"a": 1, "b": 2})
	defer m.Dispose()

	queued := make(chan struct{})
	writer := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		first := true
		finished <- m.Range(func(k string, v int) bool {
			if first {
				first = false
				go func() {
					defer close(writer)
					if err := m.Set("c", 3); err != nil {
						t.Errorf("Set() error = %v", err)
					}
				}()
				time.Sleep(50 * time.Millisecond)
				close(queued)
			}
			got, err := m.Get(k)
			if err != nil || got != v {
				t.Errorf("Get(%q) inside Range = %d, %v, want %d", k, got, err, v)
			}
			if n, err := m.Count(); err != nil || n != 2 {
				t.Errorf("Count() inside Range = %d, %v, want 2", n, err)
			}
			return true
		})
	}()

	select {
	case err := <-finished:
		if err != nil {
			t.Fatalf("Range() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reading inside Range blocked behind the queued writer")
	}
	<-queued
	select {
	case <-writer:
	case <-time.After(5 * time.Second):
		t.Fatal("Set did not complete after Range returned")
	}
	if v, err := m.Get("c"); err != nil || v != 3 {
		t.Errorf("Get(c) = %d, %v, want 3", v, err)
	}
}
