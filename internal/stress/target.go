package stress

import (
	"errors"
	"fmt"
	"io"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections/cow"
	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections/locked"
	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections/untyped"
)

// Target is the surface the workload drives. Insert and Delete report
// whether they changed the container; expected refusals such as a
// duplicate key are a false result, not an error.
type Target interface {
	Insert(key int) (bool, error)
	Delete(key int) (bool, error)
	Lookup(key int) (bool, error)
	// Enumerate walks the whole container and returns the number of items seen.
	Enumerate() (int, error)
	Count() (int, error)
	io.Closer
}

// NewTarget builds a container for cfg and loads keys 0..cfg.Seed-1 into it.
func NewTarget(cfg Config) (Target, error) {
	seed := make([]int, cfg.Seed)
	for i := range seed {
		seed[i] = i
	}

	var t Target
	switch cfg.Shape {
	case ShapeList:
		var l collections.List[int]
		switch cfg.Variant {
		case VariantCow:
			l = cow.NewOrderedFrom(seed)
		case VariantLocked:
			l = locked.NewOrderedFrom(seed)
		default:
			return nil, fmt.Errorf("stress: unknown variant %q", cfg.Variant)
		}
		lt := &listTarget{list: l}
		if cfg.Untyped {
			a, err := untyped.NewListAdapter(l)
			if err != nil {
				return nil, err
			}
			lt.boxed = a
		}
		t = lt
	case ShapeMap:
		src := make(map[int]int, len(seed))
		for _, k := range seed {
			src[k] = k
		}
		var m collections.Map[int, int]
		var err error
		switch cfg.Variant {
		case VariantCow:
			m, err = cow.NewMapFrom(src)
		case VariantLocked:
			m, err = locked.NewMapFrom(src)
		default:
			return nil, fmt.Errorf("stress: unknown variant %q", cfg.Variant)
		}
		if err != nil {
			return nil, err
		}
		mt := &mapTarget{m: m}
		if cfg.Untyped {
			a, err := untyped.NewMapAdapter(m)
			if err != nil {
				return nil, err
			}
			mt.boxed = a
		}
		t = mt
	default:
		return nil, fmt.Errorf("stress: unknown shape %q", cfg.Shape)
	}
	return t, nil
}

// listTarget appends on Insert, so every insert succeeds, and removes the
// first occurrence on Delete.
type listTarget struct {
	list  collections.List[int]
	boxed *untyped.ListAdapter[int]
}

func (t *listTarget) Insert(key int) (bool, error) {
	if t.boxed != nil {
		_, err := t.boxed.Add(key)
		return err == nil, err
	}
	err := t.list.Add(key)
	return err == nil, err
}

func (t *listTarget) Delete(key int) (bool, error) {
	if t.boxed != nil {
		return t.boxed.Remove(key)
	}
	return t.list.Remove(key)
}

func (t *listTarget) Lookup(key int) (bool, error) {
	if t.boxed != nil {
		return t.boxed.Contains(key)
	}
	return t.list.Contains(key)
}

func (t *listTarget) Enumerate() (int, error) {
	if t.boxed != nil {
		e, err := t.boxed.Enumerate()
		if err != nil {
			return 0, err
		}
		return drain(e), nil
	}
	e, err := t.list.Enumerate()
	if err != nil {
		return 0, err
	}
	return drain(e), nil
}

func (t *listTarget) Count() (int, error) {
	return t.list.Count()
}

func (t *listTarget) Close() error {
	return closeContainer(t.list)
}

// mapTarget stores key -> key. Insert of a present key and Delete of an
// absent one are refusals.
type mapTarget struct {
	m     collections.Map[int, int]
	boxed *untyped.MapAdapter[int, int]
}

func (t *mapTarget) Insert(key int) (bool, error) {
	var err error
	if t.boxed != nil {
		err = t.boxed.Add(key, key)
	} else {
		err = t.m.Add(key, key)
	}
	if errors.Is(err, collections.ErrDuplicateKey) {
		return false, nil
	}
	return err == nil, err
}

func (t *mapTarget) Delete(key int) (bool, error) {
	if t.boxed != nil {
		return t.boxed.Remove(key)
	}
	return t.m.Remove(key)
}

func (t *mapTarget) Lookup(key int) (bool, error) {
	if t.boxed != nil {
		_, ok, err := t.boxed.TryGet(key)
		return ok, err
	}
	_, ok, err := t.m.TryGet(key)
	return ok, err
}

func (t *mapTarget) Enumerate() (int, error) {
	if t.boxed != nil {
		e, err := t.boxed.Enumerate()
		if err != nil {
			return 0, err
		}
		return drain(e), nil
	}
	e, err := t.m.Enumerate()
	if err != nil {
		return 0, err
	}
	return drain(e), nil
}

func (t *mapTarget) Count() (int, error) {
	return t.m.Count()
}

func (t *mapTarget) Close() error {
	return closeContainer(t.m)
}

func drain[T any](e collections.Enumerator[T]) int {
	defer e.Dispose()
	n := 0
	for e.MoveNext() {
		n++
	}
	return n
}

// closeContainer disposes containers that hold resources. Copy-on-write
// containers have nothing to release.
func closeContainer(c any) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
