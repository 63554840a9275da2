// Package users declares the identity authority's user repository and its
// PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/teamdeck/internal/server/models"
)

// Repository stores accounts. Emails are stored and matched as given;
// callers normalize them.
type Repository interface {
	// Create inserts user and fills CreatedAt. A duplicate ID or email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID and GetByEmail return common.ErrorNotFound for unknown users.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePrefs replaces the user's preferences and returns the result.
	UpdatePrefs(ctx context.Context, id string, prefs map[string]any) (*models.User, error)
}
