// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"

	"github.com/caltrack/caltrack/internal/repository"
)

// Service errors.
var (
	ErrValidation     = errors.New("validation failed")
	ErrUserNotFound   = errors.New("user not found")
	ErrEntryNotFound  = errors.New("food entry not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUserNameExists = errors.New("user name already exists")
)

// ValidationError reports an invalid input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// mapStoreError translates repository sentinels into service sentinels.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, repository.ErrEmailExists):
		return ErrEmailExists
	case errors.Is(err, repository.ErrUserNameExists):
		return ErrUserNameExists
	default:
		return err
	}
}
