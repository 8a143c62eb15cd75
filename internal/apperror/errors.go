// Package apperror defines the error kinds services return to the route layer.
package apperror

import (
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError means the caller is authenticated but neither owns nor belongs to the resource.
type ForbiddenError struct {
	Resource string
	ID       string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to %s %s is forbidden", e.Resource, e.ID)
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// ValidationError carries per-field messages keyed by the JSON field name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

type AlreadyAssignedError struct {
	Message string
}

func (e *AlreadyAssignedError) Error() string {
	return e.Message
}

func NotFound(resource string, id fmt.Stringer) error {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

func Forbidden(resource string, id fmt.Stringer) error {
	return &ForbiddenError{Resource: resource, ID: id.String()}
}

func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

func Validation(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

// Field is shorthand for a validation error on a single field.
func Field(field, message string) error {
	return &ValidationError{Message: "Validation failed", Fields: map[string]string{field: message}}
}

func AlreadyAssigned(message string) error {
	return &AlreadyAssignedError{Message: message}
}
