// Package models holds the identity authority's stored records.
package models

import "time"

// User is an account known to the authority. PasswordHash is an argon2id
// key derived with Salt.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Salt         []byte
	Prefs        map[string]any
	CreatedAt    time.Time
}
