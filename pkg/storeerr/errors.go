// Package storeerr defines the error taxonomy shared by the docstore and
// liststore packages. This is a leaf package with no internal dependencies,
// designed to be imported by both without causing circular imports.
package storeerr

import "fmt"

// Code identifies the category of a Error.
type Code int

const (
	// CodeDataError indicates a page failed to parse: wrong magic, wrong
	// version, or a malformed container shape.
	CodeDataError Code = iota + 1

	// CodeNonFutureItem indicates an append would violate the monotone
	// ctime invariant. It is a subtype of CodeDataError.
	CodeNonFutureItem

	// CodeIO marks an error as a passthrough from the object store or
	// cache collaborator, distinct from a NotFound (which callers never
	// see as an error: absent keys read as empty).
	CodeIO
)

func (c Code) String() string {
	switch c {
	case CodeDataError:
		return "DataError"
	case CodeNonFutureItem:
		return "NonFutureItem"
	case CodeIO:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// Error is the error type surfaced by docstore and liststore operations.
type Error struct {
	Code    Code
	Message string
	Name    string // list or doc-store name the error concerns, if any
	Ctime   int64  // offending ctime, set only for CodeNonFutureItem
	Err     error  // wrapped collaborator error, set only for CodeIO
}

func (e *Error) Error() string {
	if e.Code == CodeIO && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Code == CodeNonFutureItem {
		return fmt.Sprintf("%s: %s (ctime=%d)", e.Code, e.Message, e.Ctime)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewDataError builds a CodeDataError for a malformed page.
func NewDataError(name, message string) *Error {
	return &Error{Code: CodeDataError, Message: message, Name: name}
}

// NewNonFutureItem builds the error raised when an append carries a ctime
// at or before one already recorded.
func NewNonFutureItem(name string, ctime int64) *Error {
	return &Error{
		Code:    CodeNonFutureItem,
		Message: "new ctime must be strictly greater than every known ctime",
		Name:    name,
		Ctime:   ctime,
	}
}

// Wrap marks a collaborator error (object store or cache I/O failure other
// than NotFound) as a passthrough IOError.
func Wrap(name, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: CodeIO, Message: op, Name: name, Err: err}
}

// IsDataError reports whether err is a CodeDataError (including the
// CodeNonFutureItem subtype).
func IsDataError(err error) bool {
	e, ok := err.(*Error)
	return ok && (e.Code == CodeDataError || e.Code == CodeNonFutureItem)
}

// IsNonFutureItem reports whether err is the append-monotonicity violation.
func IsNonFutureItem(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == CodeNonFutureItem
}

// IsIOError reports whether err is a passthrough collaborator failure.
func IsIOError(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == CodeIO
}
