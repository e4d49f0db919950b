package cow

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

func collect[T any](t *testing.T, e collections.Enumerator[T]) []T {
	t.Helper()
	defer e.Dispose()
	var out []T
	for e.MoveNext() {
		out = append(out, e.Current())
	}
	return out
}

func mustCount(t *testing.T, l collections.List[int]) int {
	t.Helper()
	n, err := l.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	return n
}

func TestNewFrom_CopiesSource(t *testing.T) {
	src := []int{1, 2, 3}
	l := NewFrom(src)
	src[0] = 99

	got, _ := l.Get(0)
	if got != 1 {
		t.Errorf("Get(0) = %d, want 1 (source must be copied)", got)
	}
}

func TestList_AddInsertRemove(t *testing.T) {
	l := New[int]()

	if err := l.AddRange([]int{1, 2, 4}); err != nil {
		t.Fatalf("AddRange() error = %v", err)
	}
	if err := l.Insert(2, 3); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := l.Insert(4, 5); err != nil {
		t.Fatalf("Insert at end error = %v", err)
	}
	if err := l.InsertRange(0, []int{-1, 0}); err != nil {
		t.Fatalf("InsertRange() error = %v", err)
	}

	want := []int{-1, 0, 1, 2, 3, 4, 5}
	if got := l.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}

	removed, err := l.Remove(3)
	if err != nil || !removed {
		t.Errorf("Remove(3) = (%v, %v), want (true, nil)", removed, err)
	}
	removed, _ = l.Remove(42)
	if removed {
		t.Error("Remove(42) should report false")
	}

	if err := l.RemoveAt(0); err != nil {
		t.Errorf("RemoveAt(0) error = %v", err)
	}
	if err := l.RemoveRange(0, 2); err != nil {
		t.Errorf("RemoveRange(0, 2) error = %v", err)
	}

	want = []int{2, 4, 5}
	if got := l.Snapshot(); !slices.Equal(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
}

func TestList_IndexErrors(t *testing.T) {
	l := NewFrom([]int{1, 2, 3})

	tests := []struct {
		name    string
		op      func() error
		wantErr error
	}{
		{"Get negative", func() error { _, err := l.Get(-1); return err }, collections.ErrRange},
		{"Get past end", func() error { _, err := l.Get(3); return err }, collections.ErrRange},
		{"Set past end", func() error { return l.Set(3, 0) }, collections.ErrRange},
		{"Insert past end", func() error { return l.Insert(4, 0) }, collections.ErrRange},
		{"InsertRange negative", func() error { return l.InsertRange(-1, []int{1}) }, collections.ErrRange},
		{"RemoveAt past end", func() error { return l.RemoveAt(3) }, collections.ErrRange},
		{"RemoveRange negative count", func() error { return l.RemoveRange(0, -1) }, collections.ErrRange},
		{"RemoveRange too long", func() error { return l.RemoveRange(2, 2) }, collections.ErrInvalidRange},
		{"GetRange too long", func() error { _, err := l.GetRange(1, 3); return err }, collections.ErrInvalidRange},
		{"SortRange too long", func() error { return l.SortRange(0, 4, cmp.Compare[int]) }, collections.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := l.Version()
			if err := tt.op(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if l.Version() != before {
				t.Error("failed operation must not publish a snapshot")
			}
		})
	}
}

func TestList_Search(t *testing.T) {
	l := NewFrom([]int{5, 1, 5, 3})

	if i, _ := l.IndexOf(5); i != 0 {
		t.Errorf("IndexOf(5) = %d, want 0", i)
	}
	if i, _ := l.LastIndexOf(5); i != 2 {
		t.Errorf("LastIndexOf(5) = %d, want 2", i)
	}
	if i, _ := l.IndexOf(9); i != -1 {
		t.Errorf("IndexOf(9) = %d, want -1", i)
	}
	if ok, _ := l.Contains(3); !ok {
		t.Error("Contains(3) should be true")
	}

	v, found, err := l.Find(func(v int) bool { return v < 5 })
	if err != nil || !found || v != 1 {
		t.Errorf("Find() = (%d, %v, %v), want (1, true, nil)", v, found, err)
	}
	if i, _ := l.FindIndex(func(v int) bool { return v == 3 }); i != 3 {
		t.Errorf("FindIndex() = %d, want 3", i)
	}
	all, _ := l.FindAll(func(v int) bool { return v == 5 })
	if !slices.Equal(all, []int{5, 5}) {
		t.Errorf("FindAll() = %v, want [5 5]", all)
	}

	if _, _, err := l.Find(nil); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("Find(nil) error = %v, want ErrNullArgument", err)
	}
	if _, err := l.FindIndex(nil); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("FindIndex(nil) error = %v, want ErrNullArgument", err)
	}
}

func TestList_Sort(t *testing.T) {
	t.Run("default comparer", func(t *testing.T) {
		l := NewOrderedFrom([]int{3, 1, 2})
		if err := l.Sort(); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if got := l.Snapshot(); !slices.Equal(got, []int{1, 2, 3}) {
			t.Errorf("Snapshot() = %v", got)
		}
		i, found, err := l.BinarySearch(2, nil)
		if err != nil || !found || i != 1 {
			t.Errorf("BinarySearch(2) = (%d, %v, %v)", i, found, err)
		}
	})

	t.Run("no default comparer", func(t *testing.T) {
		l := NewFrom([]int{3, 1, 2})
		if err := l.Sort(); !errors.Is(err, collections.ErrInvalidOperation) {
			t.Errorf("Sort() error = %v, want ErrInvalidOperation", err)
		}
		if err := l.SortFunc(nil); !errors.Is(err, collections.ErrNullArgument) {
			t.Errorf("SortFunc(nil) error = %v, want ErrNullArgument", err)
		}
	})

	t.Run("custom comparer", func(t *testing.T) {
		l := NewFrom([]int{1, 3, 2})
		desc := func(a, b int) int { return cmp.Compare(b, a) }
		if err := l.SortFunc(desc); err != nil {
			t.Fatalf("SortFunc() error = %v", err)
		}
		if got := l.Snapshot(); !slices.Equal(got, []int{3, 2, 1}) {
			t.Errorf("Snapshot() = %v", got)
		}
	})

	t.Run("range", func(t *testing.T) {
		l := NewOrderedFrom([]int{9, 4, 3, 2, 0})
		if err := l.SortRange(1, 3, nil); err != nil {
			t.Fatalf("SortRange() error = %v", err)
		}
		if got := l.Snapshot(); !slices.Equal(got, []int{9, 2, 3, 4, 0}) {
			t.Errorf("Snapshot() = %v", got)
		}
	})

	t.Run("with comparer option", func(t *testing.T) {
		l := New(collections.WithComparer(func(a, b string) int { return cmp.Compare(len(a), len(b)) }))
		_ = l.AddRange([]string{"ccc", "a", "bb"})
		if err := l.Sort(); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if got := l.Snapshot(); !slices.Equal(got, []string{"a", "bb", "ccc"}) {
			t.Errorf("Snapshot() = %v", got)
		}
	})
}

func TestList_ReverseAndRemoveAll(t *testing.T) {
	l := NewFrom([]int{1, 2, 3, 4, 5, 6})

	n, err := l.RemoveAll(func(v int) bool { return v%2 == 0 })
	if err != nil || n != 3 {
		t.Fatalf("RemoveAll() = (%d, %v), want (3, nil)", n, err)
	}
	before := l.Version()
	if n, _ := l.RemoveAll(func(v int) bool { return v > 100 }); n != 0 {
		t.Errorf("RemoveAll(no match) = %d, want 0", n)
	}
	if l.Version() != before {
		t.Error("RemoveAll with no match must not publish")
	}

	if err := l.Reverse(); err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if got := l.Snapshot(); !slices.Equal(got, []int{5, 3, 1}) {
		t.Errorf("Snapshot() = %v, want [5 3 1]", got)
	}
}

func TestList_CopyTo(t *testing.T) {
	l := NewFrom([]int{1, 2, 3})

	dst := make([]int, 5)
	if err := l.CopyTo(dst, 2); err != nil {
		t.Fatalf("CopyTo() error = %v", err)
	}
	if !slices.Equal(dst, []int{0, 0, 1, 2, 3}) {
		t.Errorf("dst = %v", dst)
	}

	if err := l.CopyTo(make([]int, 2), 0); !errors.Is(err, collections.ErrInvalidRange) {
		t.Errorf("too small: error = %v, want ErrInvalidRange", err)
	}
	if err := l.CopyTo(nil, 0); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("nil dst: error = %v, want ErrNullArgument", err)
	}
	if err := l.CopyTo(make([]int, 5), -1); !errors.Is(err, collections.ErrRange) {
		t.Errorf("negative offset: error = %v, want ErrRange", err)
	}
}

func TestList_Clear(t *testing.T) {
	l := NewFrom([]int{1, 2, 3})
	e, _ := l.Enumerate()

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n := mustCount(t, l); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if got := collect(t, e); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("enumeration started before Clear = %v, want [1 2 3]", got)
	}
}

func TestList_SnapshotIsolation(t *testing.T) {
	l := NewFrom([]int{1, 2, 3, 4})

	e, err := l.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}

	var got []int
	for i := 0; i < 2 && e.MoveNext(); i++ {
		got = append(got, e.Current())
	}

	done := make(chan error)
	go func() { done <- l.Add(5) }()
	if err := <-done; err != nil {
		t.Fatalf("Add(5) error = %v", err)
	}

	for e.MoveNext() {
		got = append(got, e.Current())
	}
	e.Dispose()

	if !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Errorf("in-flight enumeration = %v, want [1 2 3 4]", got)
	}

	e2, _ := l.Enumerate()
	if got := collect(t, e2); !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("new enumeration = %v, want [1 2 3 4 5]", got)
	}
	if n := mustCount(t, l); n != 5 {
		t.Errorf("Count() = %d, want 5", n)
	}
}

func TestList_EnumeratorReset(t *testing.T) {
	l := NewFrom([]int{1})
	e, _ := l.Enumerate()
	defer e.Dispose()

	if err := e.Reset(); !errors.Is(err, collections.ErrInvalidOperation) {
		t.Errorf("Reset() error = %v, want ErrInvalidOperation", err)
	}

	e.Dispose()
	e.Dispose()
	if e.MoveNext() {
		t.Error("MoveNext() after Dispose should be false")
	}
}

func TestList_RangeAndAll(t *testing.T) {
	l := NewFrom([]int{1, 2, 3, 4})

	var seen []int
	err := l.Range(func(i, v int) bool {
		seen = append(seen, v)
		if i == 0 {
			// Writes from inside Range are not observed by it.
			_ = l.Add(100)
		}
		return v < 3
	})
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if !slices.Equal(seen, []int{1, 2, 3}) {
		t.Errorf("Range saw %v, want [1 2 3]", seen)
	}

	var all []int
	for _, v := range l.All() {
		all = append(all, v)
	}
	if !slices.Equal(all, []int{1, 2, 3, 4, 100}) {
		t.Errorf("All() = %v", all)
	}

	if err := l.Range(nil); !errors.Is(err, collections.ErrNullArgument) {
		t.Errorf("Range(nil) error = %v, want ErrNullArgument", err)
	}
}

func TestList_ConcurrentAddRemove(t *testing.T) {
	l := New[int]()
	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	var mu sync.Mutex
	added, removed := 0, 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			localAdded, localRemoved := 0, 0
			for i := 0; i < perWorker; i++ {
				v := w*perWorker + i
				if err := l.Add(v); err == nil {
					localAdded++
				}
				if i%3 == 0 {
					if ok, _ := l.Remove(v); ok {
						localRemoved++
					}
				}
				// Readers never block and always see a whole snapshot.
				_, _ = l.Contains(v)
			}
			mu.Lock()
			added += localAdded
			removed += localRemoved
			mu.Unlock()
		}(w)
	}
	wg.Wait()

	if n := mustCount(t, l); n != added-removed {
		t.Errorf("Count() = %d, want %d", n, added-removed)
	}
}

func TestList_ReadersSeeWholeSnapshots(t *testing.T) {
	// Every published snapshot is [0, 1, ..., n-1]; a torn read would break
	// the sequence.
	l := New[int]()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = l.Add(i)
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := l.Snapshot()
				for i, v := range snap {
					if v != i {
						t.Errorf("torn snapshot at %d: %v", i, v)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
