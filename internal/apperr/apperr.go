// Package apperr holds the error variants the customer API distinguishes at its boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Validation error types, kept compatible with the values existing clients inspect.
const (
	TypeNotNull    = "notNull Violation"
	TypeString     = "string violation"
	TypeValidation = "Validation error"
	TypeUnique     = "unique violation"
	TypeForeignKey = "foreign key violation"
	TypeNotFound   = "not found"
	TypeStore      = "store error"
)

// ValidationError reports a field that violates a schema constraint.
type ValidationError struct {
	Message string
	Type    string
	Path    string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StoreError wraps any other persistence failure. Its cause is for logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
