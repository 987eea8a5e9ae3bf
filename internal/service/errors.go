package service

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map these to HTTP statuses; anything else is a 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
