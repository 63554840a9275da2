package services

import "errors"

var (
	// ErrBusy is returned when VerifySession, Login or Logout is called while
	// another of them is still in flight.
	ErrBusy = errors.New("another auth operation is in progress")
	// ErrStorageUnavailable short-circuits auth operations when local
	// storage cannot be written.
	ErrStorageUnavailable = errors.New("local storage unavailable")
	ErrEmptyCredentials   = errors.New("email and password are required")
	// ErrFailed wraps failures that did not originate at the identity
	// authority.
	ErrFailed = errors.New("auth operation failed")
	// ErrReset is returned by a Login whose result was discarded because
	// Reset ran while it was in flight.
	ErrReset = errors.New("auth state was reset")
)
