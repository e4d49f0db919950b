// Package untyped adapts the typed containers to callers that only hold
// values of type any.
//
// Every value crossing the adapter is checked at runtime against the
// container's element type. A value whose dynamic type is not assignable to
// the element type is rejected with collections.ErrTypeMismatch. nil is
// accepted only when the element type can hold nil; nil keys are always
// rejected with collections.ErrNullArgument.
package untyped

import (
	"fmt"
	"reflect"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

// converter checks and converts untyped values to T.
type converter[T any] struct {
	typ      reflect.Type
	nillable bool
}

func newConverter[T any]() converter[T] {
	t := reflect.TypeFor[T]()
	return converter[T]{typ: t, nillable: collections.Nillable(t)}
}

// compatible reports whether v can be stored as a T.
func (c converter[T]) compatible(v any) bool {
	if v == nil {
		return c.nillable
	}
	if _, ok := v.(T); ok {
		return true
	}
	return reflect.TypeOf(v).AssignableTo(c.typ)
}

// convert returns v as a T or a TypeMismatch error naming both types.
func (c converter[T]) convert(site, param string, v any) (out T, err error) {
	if v == nil {
		if c.nillable {
			return out, nil
		}
		return out, collections.NewError(collections.KindTypeMismatch, site, param).
			WithDetails(fmt.Sprintf("nil is not a valid %s", c.typ))
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(c.typ) {
		return out, c.mismatch(site, param, v, nil)
	}

	// reflect panics on conversions it cannot perform; surface those as
	// type mismatches too.
	defer func() {
		if r := recover(); r != nil {
			err = c.mismatch(site, param, v, fmt.Errorf("%v", r))
		}
	}()
	dst := reflect.New(c.typ).Elem()
	dst.Set(rv)
	return dst.Interface().(T), nil
}

func (c converter[T]) mismatch(site, param string, v any, cause error) error {
	err := collections.NewError(collections.KindTypeMismatch, site, param).
		WithDetails(fmt.Sprintf("value of type %T is not assignable to %s", v, c.typ))
	if cause != nil {
		return err.WithCause(cause)
	}
	return err
}
