package vcard

import "fmt"

// ErrorCode is the native library's error code space. The values are
// fixed by the library ABI and must never be renumbered or collapsed.
type ErrorCode int32

const (
	OK ErrorCode = iota
	InvalidFile
	InvalidCard
	InvalidProperty
	InvalidDateTime
	WriteError
	OtherError
)

// String returns the canonical name for a code. Unknown values are
// reported as such rather than being folded into OtherError.
func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "OK"
	case InvalidFile:
		return "invalid file"
	case InvalidCard:
		return "invalid card"
	case InvalidProperty:
		return "invalid property"
	case InvalidDateTime:
		return "invalid date/time"
	case WriteError:
		return "write error"
	case OtherError:
		return "other error"
	default:
		return fmt.Sprintf("unknown error code %d", int32(c))
	}
}

// CodeError wraps a non-OK native code so callers can recover the
// verbatim code with errors.As and decide how to proceed.
type CodeError struct {
	Op   string // operation that failed, e.g. "createCard"
	Path string // file the operation was applied to, if any
	Code ErrorCode
}

// Error implements the error interface.
func (e *CodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s (code %d)", e.Op, e.Path, e.Code, int32(e.Code))
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Code, int32(e.Code))
}

// NewCodeError builds a CodeError. It panics if called with OK, which
// would indicate a caller treating success as a failure.
func NewCodeError(op, path string, code ErrorCode) *CodeError {
	if code == OK {
		panic("vcard: NewCodeError called with OK")
	}
	return &CodeError{Op: op, Path: path, Code: code}
}
