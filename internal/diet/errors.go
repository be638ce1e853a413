package diet

import (
	"errors"
	"fmt"
)

// Sentinel conditions callers can branch on with errors.Is. Both are
// programmer-error-class: they indicate malformed inputs, not an infeasible
// problem, and are never resolved silently.
var (
	// ErrDuplicateKey reports a good or nutrient identifier appearing more
	// than once where uniqueness is assumed.
	ErrDuplicateKey = errors.New("duplicate identifier")
	// ErrShapeMismatch reports a ProblemInstance whose vectors and matrix
	// disagree on dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Error carries the component and operation where a diet-pipeline error
// occurred, wrapping any underlying cause.
type Error struct {
	Message   string
	Op        string
	Component string
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	prefix := e.Component
	if e.Op != "" {
		if prefix != "" {
			prefix += ": "
		}
		prefix += e.Op
	}
	msg := e.Message
	if e.Err != nil {
		if msg != "" {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		} else {
			msg = e.Err.Error()
		}
	}
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewErrorf creates a new Error with a formatted message tagged with the
// given operation.
func NewErrorf(op, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Op:      op,
	}
}

// WrapError wraps an existing error with the operation that produced it.
// Returns nil if err is nil.
func WrapError(err error, op string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
