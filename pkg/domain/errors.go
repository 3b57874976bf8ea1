package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports an update or delete against an id that is not in
// its collection.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a field rejected at the input boundary.
type ValidationError struct {
	Entity EntityType
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func notFound(entity EntityType, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalid(entity EntityType, field, format string, args ...any) error {
	return &ValidationError{Entity: entity, Field: field, Reason: fmt.Sprintf(format, args...)}
}
