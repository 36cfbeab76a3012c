package client

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason classifies why Connect failed.
type Reason string

// The reasons a connection can fail.
const (
	ReasonRootContextUnavailable Reason = "root context unavailable"
	ReasonServiceNotFound        Reason = "service not found"
	// ReasonTypeMismatch means the bound object does not implement the expected interface,
	// usually because client and server were built against different interface versions.
	ReasonTypeMismatch Reason = "type mismatch"
	// ReasonServiceUnavailable means the name resolved but its endpoint could not be reached.
	ReasonServiceUnavailable Reason = "service unavailable"
)

// A ConnectionError is returned by Connect. Every connection failure is terminal.
type ConnectionError struct {
	Reason Reason
	// Name is the directory name being resolved, if any.
	Name string
	Err  error
}

func (e *ConnectionError) Error() string {
	msg := string(e.Reason)
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", e.Name, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the cause of the failure.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is a *ConnectionError with the given reason.
func IsConnectionError(err error, reason Reason) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr) && connErr.Reason == reason
}

// A TypeMismatchError describes a bound object of the wrong type.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected object of type %q but got %q", e.Expected, e.Actual)
}
