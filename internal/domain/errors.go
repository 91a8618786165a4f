// Package domain holds the portfolio content model, the quote of the day selector
// and the business errors shared by every layer.
//
// Errors here describe what went wrong in portfolio terms. Adapters translate them
// into transport responses (see adapters/http/dto.MapDomainError).
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested content does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates input broke a content rule.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the store or an upstream is unreachable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names the missing entity. ID is zero when the lookup was not by id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a not found error for an entity looked up by id.
func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a clash with existing content.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError creates a conflict error.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError describes a rejected field. Field may be empty for whole-object rules.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnauthorizedError is returned when credentials are missing, wrong or expired.
// Reason is logged but never shown to clients verbatim.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}

	return "unauthorized: " + e.Reason
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// ForbiddenError reports an operation that is switched off or not permitted.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("operation %q forbidden", e.Operation)
	}

	return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError reports an unreachable dependency such as the database.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("service %q unavailable", e.Service)
	}

	return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError creates an unavailable error.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnauthorized reports whether err is an unauthorized error.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsUnavailable reports whether err is an unavailable error.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
