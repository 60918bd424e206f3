package skemafile

import (
	"errors"
	"fmt"
)

// Kind classifies a load or save failure. The set is closed; callers switch on
// it to decide how to react without re-interpreting causes.
type Kind string

const (
	KindFileRead           Kind = "file_read"
	KindFileWrite          Kind = "file_write"
	KindInvalidFormat      Kind = "invalid_format"
	KindInvalidVersion     Kind = "invalid_version"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindValidation         Kind = "validation"
	KindMigration          Kind = "migration"
	KindEncoding           Kind = "encoding"
)

// Error is the classified failure type returned by Store operations. The
// underlying cause (I/O error, structured validation error) is preserved for
// diagnostics and reachable via errors.As / Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf extracts the classification from err, or "" when err is not a
// skemafile error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newErrorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErrorf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}
