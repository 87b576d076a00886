// Package common defines shared constants and sentinel errors used across
// server and client layers of mailgate. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Validation errors. Every specific validation error wraps ErrorValidation.
	ErrorValidation    = errors.New("validation error")
	ErrInvalidUsername = fmt.Errorf("%w: username must be 3-30 letters or digits", ErrorValidation)
	ErrInvalidPassword = fmt.Errorf("%w: password must be at least 6 characters long", ErrorValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes long", ErrorValidation)
	ErrInvalidAddress  = fmt.Errorf("%w: please enter a valid email address", ErrorValidation)
	ErrInvalidEnvelope = fmt.Errorf("%w: envelope has no recipient", ErrorValidation)

	// Account lifecycle errors.
	ErrUsernameTaken  = errors.New("username already taken")
	ErrCreationFailed = errors.New("failed to create account")
)
