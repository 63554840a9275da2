package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefs_Reputation(t *testing.T) {
	tests := []struct {
		name   string
		prefs  Prefs
		want   float64
		wantOK bool
	}{
		{name: "nil prefs", prefs: nil},
		{name: "missing", prefs: Prefs{"theme": "dark"}},
		{name: "float", prefs: Prefs{PrefReputation: 12.0}, want: 12, wantOK: true},
		{name: "int", prefs: Prefs{PrefReputation: 3}, want: 3, wantOK: true},
		{name: "zero is present", prefs: Prefs{PrefReputation: 0.0}, want: 0, wantOK: true},
		{name: "non numeric", prefs: Prefs{PrefReputation: "high"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.prefs.Reputation()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrefs_WithReputation_DoesNotMutateReceiver(t *testing.T) {
	p := Prefs{"theme": "dark"}
	q := p.WithReputation(0)

	_, ok := p.Reputation()
	require.False(t, ok)
	got, ok := q.Reputation()
	require.True(t, ok)
	require.Zero(t, got)
	require.Equal(t, "dark", q["theme"])
}

func TestUser_CloneCopiesPrefs(t *testing.T) {
	u := &User{ID: "u1", Prefs: Prefs{PrefReputation: 1.0}}
	c := u.Clone()
	c.Prefs[PrefReputation] = 99.0

	got, _ := u.Prefs.Reputation()
	require.Equal(t, 1.0, got)
	require.Nil(t, (*User)(nil).Clone())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	require.False(t, (*Session)(nil).Expired(now))
	require.False(t, (&Session{}).Expired(now))
	require.True(t, (&Session{Expire: now.Add(-time.Minute)}).Expired(now))
	require.False(t, (&Session{Expire: now.Add(time.Minute)}).Expired(now))
	require.Nil(t, (*Session)(nil).Clone())
}
