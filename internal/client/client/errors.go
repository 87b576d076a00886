package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrAlreadyExists = errors.New("username already taken")
	ErrInvalidInput  = errors.New("invalid input")
)
