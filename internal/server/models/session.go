package models

import "time"

// Session is a sign-in of one user. Secret is the bearer value clients
// present in the x-session header.
type Session struct {
	ID        string
	UserID    string
	Secret    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
