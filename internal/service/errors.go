package service

import (
	"errors"
	"fmt"
)

// ErrForbidden indicates the actor is neither the review's author nor an
// admin. The record is left unchanged.
var ErrForbidden = errors.New("service: forbidden")

// ValidationError reports malformed or out-of-range input. The operation is
// not attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
