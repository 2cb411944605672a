package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every service. Handlers map these onto HTTP status codes.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
)

// Domain specific errors wrap the taxonomy so callers can match either.
var (
	ErrUserNotFound         = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrStudentNotFound      = fmt.Errorf("student not found: %w", ErrNotFound)
	ErrQuestionNotFound     = fmt.Errorf("question not found: %w", ErrNotFound)
	ErrNoQuestionAvailable  = fmt.Errorf("no question available: %w", ErrNotFound)
	ErrEmailTaken           = fmt.Errorf("user with this email already exists: %w", ErrConflict)
	ErrQuestionDayTaken     = fmt.Errorf("a question is already assigned to this day: %w", ErrConflict)
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)

// InputError describes a rejected payload with a human readable message.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalidInput(format string, args ...interface{}) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}
