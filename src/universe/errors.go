package universe

import "fmt"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"
	// CodeOutOfRange is returned when a coordinate lies outside the grid.
	CodeOutOfRange Code = "OUT_OF_RANGE"
	// CodeEntropyUnavailable is returned when the random seed cannot be read.
	CodeEntropyUnavailable Code = "ENTROPY_UNAVAILABLE"
)

var (
	// ErrOutOfRange matches any out-of-range coordinate error via errors.Is.
	ErrOutOfRange = &Error{Code: CodeOutOfRange, Message: "coordinate out of range"}
	// ErrEntropyUnavailable matches any seeding failure via errors.Is.
	ErrEntropyUnavailable = &Error{Code: CodeEntropyUnavailable, Message: "randomness source unavailable"}
)

// Error is the universe error type.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func outOfRange(row, col, width, height uint32) *Error {
	return &Error{
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("cell [%d, %d] outside %dx%d grid", row, col, width, height),
	}
}

func entropyUnavailable(cause error) *Error {
	return &Error{
		Code:    CodeEntropyUnavailable,
		Message: "read random seed",
		Cause:   cause,
	}
}
