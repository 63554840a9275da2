// Package models defines the client-side auth data: sessions issued by the
// identity authority and the user profile with its preferences.
package models

import "time"

// Session is a session issued by the identity authority. Secret
// authenticates subsequent calls made on the session's behalf.
type Session struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Secret string    `json:"secret,omitempty"`
	Expire time.Time `json:"expire"`
}

// Clone returns a copy of s, or nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Expired reports whether the session's expiry lies before now. Sessions
// without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !s.Expire.IsZero() && s.Expire.Before(now)
}
