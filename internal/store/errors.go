package store

import (
	"errors"
	"fmt"
)

// Kind categorizes a store failure. Callers match on the kind, never on
// transport-specific detail.
type Kind string

const (
	// KindNotFound means the referenced entity does not exist.
	KindNotFound Kind = "not_found"
	// KindValidation means the store rejected the request as malformed.
	KindValidation Kind = "validation"
	// KindTransport covers every other store or connection failure.
	KindTransport Kind = "transport"
)

// Error is the single error type all store implementations return.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound wraps err as a not-found store error for operation op.
func NotFound(op string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// Invalid wraps err as a validation store error for operation op.
func Invalid(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// Transport wraps err as a transport store error for operation op.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// KindOf extracts the category of a store error, or KindTransport when the
// error did not originate in a store implementation.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransport
}

// IsNotFound reports whether err is a not-found store error.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindNotFound
}
