package domain

import "fmt"

// Error types for consistent error handling across the portal.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a transport-level failure calling the LAMF service.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrBackend indicates the service answered but reported success=false.
type ErrBackend struct {
	Operation string
	Message   string
}

func (e *ErrBackend) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return e.Message
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates invalid credentials or session.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrNotImplemented marks an affordance that exists in the UI but has no workflow yet.
type ErrNotImplemented struct {
	Feature string
}

func (e *ErrNotImplemented) Error() string {
	return fmt.Sprintf("%s is not yet implemented", e.Feature)
}

// ErrStaleView indicates a list fetch was superseded by a newer one for the same view.
type ErrStaleView struct {
	View   string
	Filter string
}

func (e *ErrStaleView) Error() string {
	return fmt.Sprintf("stale %s view, latest filter is %q", e.View, e.Filter)
}
