package bridge

import (
	"errors"
	"fmt"
)

// Standard errors returned by the bridge.
var (
	// ErrNoHoverResult indicates hover conversion produced an empty
	// result for a position with no hover target. Callers treat this as
	// "no hover", not a failure.
	ErrNoHoverResult = errors.New("missing hover result")

	// ErrSessionClosed indicates the session has been closed.
	ErrSessionClosed = errors.New("session closed")
)

// EngineError wraps a failure from the language-intelligence engine.
// The bridge does not retry or translate engine failures; it surfaces
// them to the editor layer, which decides how to degrade.
type EngineError struct {
	Op  string
	URI string
	Err error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s %s: %v", e.Op, e.URI, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// engineErr wraps err as an EngineError unless it is nil.
func engineErr(op, uri string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, URI: uri, Err: err}
}
