// Package collections defines the shared contract for the concurrent containers.
package collections

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

// Error kinds. All of them signal caller mistakes: they are returned
// immediately and retrying the same call fails the same way.
const (
	KindUnknown Kind = iota
	KindNullArgument
	KindRange
	KindInvalidRange
	KindDuplicateKey
	KindTypeMismatch
	KindKeyNotFound
	KindUsedAfterDispose
	KindInvalidOperation
)

// String returns the symbolic name of the kind. The name doubles as the
// message lookup key.
func (k Kind) String() string {
	switch k {
	case KindNullArgument:
		return "NullArgument"
	case KindRange:
		return "RangeError"
	case KindInvalidRange:
		return "InvalidRange"
	case KindDuplicateKey:
		return "DuplicateKey"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindKeyNotFound:
		return "KeyNotFound"
	case KindUsedAfterDispose:
		return "UsedAfterDispose"
	case KindInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every container in this module.
type Error struct {
	Kind    Kind   // Error classification
	Site    string // Call site, e.g. "cow.List.Insert"
	Param   string // Offending parameter, if any
	Message string // Human-readable message from the message lookup
	Code    int    // Diagnostic code from the code table
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	switch {
	case e.Site != "" && e.Param != "":
		return fmt.Sprintf("%s: %s (parameter %q)", e.Site, msg, e.Param)
	case e.Site != "":
		return fmt.Sprintf("%s: %s", e.Site, msg)
	default:
		return msg
	}
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ErrRange) matches any range error regardless of site.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNullArgument     = &Error{Kind: KindNullArgument}
	ErrRange            = &Error{Kind: KindRange}
	ErrInvalidRange     = &Error{Kind: KindInvalidRange}
	ErrDuplicateKey     = &Error{Kind: KindDuplicateKey}
	ErrTypeMismatch     = &Error{Kind: KindTypeMismatch}
	ErrKeyNotFound      = &Error{Kind: KindKeyNotFound}
	ErrUsedAfterDispose = &Error{Kind: KindUsedAfterDispose}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
)

// NewError builds an *Error for kind raised at site. The message and code
// are resolved through the current message lookup and code table.
func NewError(kind Kind, site, param string) *Error {
	return &Error{
		Kind:    kind,
		Site:    site,
		Param:   param,
		Message: lookupMessage(kind.String()),
		Code:    codeFor(site),
	}
}

// WithDetails returns a copy of the error whose message has details appended.
func (e *Error) WithDetails(details string) *Error {
	cp := *e
	if cp.Message == "" {
		cp.Message = cp.Kind.String()
	}
	cp.Message = cp.Message + ": " + details
	return &cp
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the diagnostic code of err, or 0 if err is not an *Error.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// Disposed returns the UsedAfterDispose error for site.
func Disposed(site string) *Error {
	return NewError(KindUsedAfterDispose, site, "")
}

// KeyNotFound returns the KeyNotFound error for site, naming the key.
func KeyNotFound(site string, key any) *Error {
	return NewError(KindKeyNotFound, site, "key").WithDetails(fmt.Sprintf("%v", key))
}

// DuplicateKey returns the DuplicateKey error for site, naming the key.
func DuplicateKey(site string, key any) *Error {
	return NewError(KindDuplicateKey, site, "key").WithDetails(fmt.Sprintf("%v", key))
}
