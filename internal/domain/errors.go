package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrTransient     = errors.New("transient store error")
)

// RowError is a user-facing problem tied to an input row when Row is set.
type RowError struct {
	Row     *int   `json:"row,omitempty"`
	Message string `json:"message"`
}

// NewRowError builds a row-scoped error
func NewRowError(row int, message string) RowError {
	return RowError{Row: &row, Message: message}
}

// NewError builds an error that is not tied to a row
func NewError(message string) RowError {
	return RowError{Message: message}
}

func (e RowError) String() string {
	if e.Row == nil {
		return e.Message
	}
	return fmt.Sprintf("Row %d: %s", *e.Row, e.Message)
}
