package models

import (
	"maps"
	"time"
)

// PrefReputation is the preference key holding the user's reputation score.
const PrefReputation = "reputation"

// Prefs holds free-form user preferences as stored by the authority.
// Numbers arrive as float64.
type Prefs map[string]any

// Reputation returns the reputation preference and whether it is present
// and numeric.
func (p Prefs) Reputation() (float64, bool) {
	v, ok := p[PrefReputation]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// WithReputation returns a copy of p with the reputation set to score.
func (p Prefs) WithReputation(score float64) Prefs {
	c := make(Prefs, len(p)+1)
	maps.Copy(c, p)
	c[PrefReputation] = score
	return c
}

// User is the authority's account profile.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Prefs        Prefs     `json:"prefs"`
	Registration time.Time `json:"registration"`
}

// Clone returns a deep-enough copy of u (prefs map copied), or nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Prefs != nil {
		c.Prefs = maps.Clone(u.Prefs)
	}
	return &c
}
