// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

import "fmt"

// AssertError identifies an error that indicates a programmer error such as
// an invalid deployment parameter or a cache invariant violation.  It is
// always fatal; the core has no recovery policy for it.
type AssertError string

// Error returns the assertion error as a human-readable string and
// satisfies the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As so callers can check against a specific kind.
type ErrorKind string

// Error satisfies the error interface.
func (e ErrorKind) Error() string {
	return string(e)
}

// These constants identify the kinds of errors the package itself returns.
// They never describe consensus-rule failures; those are reported by the
// AssertError panics described above since this package treats malformed
// parameters as programmer errors rather than recoverable conditions.
const (
	// ErrUnknownDeployment indicates a lookup was made against an
	// EngineSet for a deployment id that was never registered.
	ErrUnknownDeployment = ErrorKind("ErrUnknownDeployment")
)

// ContextError wraps an ErrorKind with additional context.  It supports
// errors.Is and errors.As via Unwrap.
type ContextError struct {
	Err         error
	Description string
}

// Error satisfies the error interface.
func (e ContextError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ContextError) Unwrap() error {
	return e.Err
}

// contextError creates a ContextError given a set of arguments.
func contextError(kind ErrorKind, desc string) ContextError {
	return ContextError{Err: kind, Description: desc}
}

// unknownDeploymentError creates a ContextError with the kind set to
// ErrUnknownDeployment and a description that includes the provided id.
func unknownDeploymentError(id string) ContextError {
	return contextError(ErrUnknownDeployment, fmt.Sprintf("deployment %q is not registered", id))
}

// assertf panics with an AssertError built from the formatted message.  It
// is used for the parameter and cache invariants that are programmer errors
// rather than recoverable conditions a caller could reasonably handle.
func assertf(format string, args ...interface{}) {
	panic(AssertError(fmt.Sprintf(format, args...)))
}
