package authority

import (
	"context"

	"github.com/dmitrijs2005/teamdeck/internal/client/models"
)

// Authority is the remote identity service consumed by the auth store.
type Authority interface {
	// CreateSession signs in with email and password. On success the client
	// adopts the new session for subsequent calls.
	CreateSession(ctx context.Context, email, password string) (*models.Session, error)
	// GetSession looks a session up; common.CurrentSessionID means "mine".
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	// GetAccount returns the profile of the session's user.
	GetAccount(ctx context.Context) (*models.User, error)
	// CreateJWT mints a short-lived bearer token for the session's user.
	CreateJWT(ctx context.Context) (string, error)
	// UpdatePrefs replaces the user's preferences.
	UpdatePrefs(ctx context.Context, prefs models.Prefs) (*models.User, error)
	// CreateUser registers a new identity. It does not sign in.
	CreateUser(ctx context.Context, userID, email, password, name string) (*models.User, error)
	// DeleteSessions invalidates every session of the current user.
	DeleteSessions(ctx context.Context) error

	// SetSession sets the session secret sent with later calls; "" clears it.
	SetSession(secret string)
	// Session returns the session secret currently in use.
	Session() string

	Ping(ctx context.Context) error
	Close() error
}
