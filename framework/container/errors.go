package container

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrContainerDisposed is returned when registering, resolving or
	// spawning scopes on a container after Dispose.
	ErrContainerDisposed = errors.New("container: container is disposed")

	// ErrScopeDisposed is returned when resolving from a scope after its
	// Dispose. A disposed scope never hands out stale instances.
	ErrScopeDisposed = errors.New("container: scope is disposed")

	// ErrNilFactory is returned when registering a factory producer whose
	// function is nil.
	ErrNilFactory = errors.New("container: nil factory")
)

// DuplicateRegistrationError is returned when an identity is registered
// twice. The original registration stays intact.
type DuplicateRegistrationError struct{ Identity Identity }

// Error implements the error interface.
func (e DuplicateRegistrationError) Error() string {
	// Example: container: identity "logger" already registered
	return "container: identity " + strconv.Quote(string(e.Identity)) + " already registered"
}

// NotRegisteredError is returned when resolving or inspecting an identity
// with no descriptor. Resolution never defaults to nil.
type NotRegisteredError struct{ Identity Identity }

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: container: identity "logger" not registered
	return "container: identity " + strconv.Quote(string(e.Identity)) + " not registered"
}

// CircularDependencyError is returned when a resolution re-enters an identity
// already under construction. Chain holds the offending path, ending with the
// repeated identity.
type CircularDependencyError struct{ Chain []Identity }

// Error implements the error interface.
func (e CircularDependencyError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, id := range e.Chain {
		parts[i] = string(id)
	}
	// Example: container: circular dependency: a -> b -> a
	return "container: circular dependency: " + strings.Join(parts, " -> ")
}

// ScopeRequiredError is returned when a Scoped identity is resolved directly
// on the root container. Scoped services must be resolved through a Scope;
// see the package documentation for the rationale.
type ScopeRequiredError struct{ Identity Identity }

// Error implements the error interface.
func (e ScopeRequiredError) Error() string {
	// Example: container: identity "repo" is scoped and requires an active scope
	return "container: identity " + strconv.Quote(string(e.Identity)) + " is scoped and requires an active scope"
}

// TypeMismatchError is returned by ResolveAs when the resolved instance does
// not have the requested type.
type TypeMismatchError struct {
	Identity Identity
	Want     string
	Got      string
}

// Error implements the error interface.
func (e TypeMismatchError) Error() string {
	// Example: container: identity "logger" resolved to *bytes.Buffer, want *zap.Logger
	return "container: identity " + strconv.Quote(string(e.Identity)) +
		" resolved to " + e.Got + ", want " + e.Want
}

// DisposeError aggregates failures raised by individual disposers during
// Dispose. Every disposer runs to completion regardless of earlier failures;
// the collected errors are reported once.
type DisposeError struct{ Errors []error }

// Error implements the error interface.
func (e *DisposeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "container: dispose: " + strconv.Itoa(len(e.Errors)) +
		" disposer(s) failed: " + strings.Join(msgs, "; ")
}

// Unwrap supports errors.Is / errors.As over the collected failures.
func (e *DisposeError) Unwrap() []error { return e.Errors }
