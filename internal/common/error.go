package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorInvalidArgument = errors.New("invalid argument")

	// Session lifecycle errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionExpired = errors.New("session expired")
)
