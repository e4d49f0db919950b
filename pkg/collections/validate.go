package collections

import "reflect"

// CheckIndex validates that index addresses an existing element.
func CheckIndex(site, param string, index, count int) error {
	if index < 0 || index >= count {
		return NewError(KindRange, site, param)
	}
	return nil
}

// CheckInsertIndex validates that index is a valid insertion point,
// which includes count itself (append).
func CheckInsertIndex(site, param string, index, count int) error {
	if index < 0 || index > count {
		return NewError(KindRange, site, param)
	}
	return nil
}

// CheckRange validates the window [index, index+count) against length.
func CheckRange(site string, index, count, length int) error {
	if index < 0 {
		return NewError(KindRange, site, "index")
	}
	if count < 0 {
		return NewError(KindRange, site, "count")
	}
	if length-index < count {
		return NewError(KindInvalidRange, site, "")
	}
	return nil
}

// CheckCopyTo validates copying n elements into a destination of dstLen
// elements starting at offset.
func CheckCopyTo(site string, dstNil bool, dstLen, offset, n int) error {
	if dstNil {
		return NewError(KindNullArgument, site, "dst")
	}
	if offset < 0 {
		return NewError(KindRange, site, "offset")
	}
	if dstLen-offset < n {
		return NewError(KindInvalidRange, site, "dst")
	}
	return nil
}

// CheckNotNil returns a NullArgument error when v is nil or a typed nil of
// a nillable kind.
func CheckNotNil(site, param string, v any) error {
	if IsNil(v) {
		return NewError(KindNullArgument, site, param)
	}
	return nil
}

// IsNil reports whether v is nil, including typed nils stored in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

// Nillable reports whether the type t can hold nil.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
