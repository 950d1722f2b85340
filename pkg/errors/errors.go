// Package errors provides the contextual error type shared by speechkit modules.
//
// ContextualError records which component failed, what it was doing, and an
// optional status code and structured details. It implements Unwrap so callers
// can keep using errors.Is and errors.As on the underlying cause.
//
// Usage:
//
//	err := errors.New("config", "Load", someErr)
//	err = err.WithStatusCode(400).WithDetails(map[string]any{"file": path})
package errors

import "fmt"

// ContextualError is a structured error describing where and why a failure happened.
type ContextualError struct {
	// Component identifies the module that produced the error (e.g. "config", "server", "tools").
	Component string

	// Operation describes what was being done when the error occurred.
	Operation string

	// StatusCode is an optional HTTP or application-level status code.
	StatusCode int

	// Details holds optional structured metadata about the error.
	Details map[string]any

	// Cause is the underlying error, if any.
	Cause error
}

// New creates a ContextualError with the given component, operation, and cause.
func New(component, operation string, cause error) *ContextualError {
	return &ContextualError{
		Component: component,
		Operation: operation,
		Cause:     cause,
	}
}

// Error returns a human-readable representation of the error.
func (e *ContextualError) Error() string {
	base := fmt.Sprintf("[%s] %s", e.Component, e.Operation)

	if e.StatusCode != 0 {
		base += fmt.Sprintf(" (status %d)", e.StatusCode)
	}

	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}

	return base
}

// Unwrap returns the underlying cause.
func (e *ContextualError) Unwrap() error {
	return e.Cause
}

// WithStatusCode sets the status code and returns the same error for chaining.
func (e *ContextualError) WithStatusCode(code int) *ContextualError {
	e.StatusCode = code
	return e
}

// WithDetails replaces the details map and returns the same error for chaining.
func (e *ContextualError) WithDetails(details map[string]any) *ContextualError {
	e.Details = details
	return e
}

// WithDetail adds a single detail entry, allocating the map if needed.
func (e *ContextualError) WithDetail(key string, value any) *ContextualError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}
