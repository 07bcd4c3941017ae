package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrUpload             = errors.New("error uploading image")
	ErrDelete             = errors.New("error deleting image")
)

var (
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("project %w", ErrNotFound)
	ErrClientNotFound     = fmt.Errorf("client %w", ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("contact submission %w", ErrNotFound)
	ErrSubscriberNotFound = fmt.Errorf("subscriber %w", ErrNotFound)

	ErrAccountExists   = fmt.Errorf("account %w", ErrDuplicate)
	ErrEmailSubscribed = fmt.Errorf("email %w", ErrDuplicate)
)

// ValidationError carries a client-facing message for bad input.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
