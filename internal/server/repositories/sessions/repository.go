// Package sessions declares the identity authority's session repository
// and its PostgreSQL and in-memory implementations.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/server/models"
)

// Repository defines operations for issuing, resolving and revoking sessions.
type Repository interface {
	// Create stores a new session. CreatedAt is filled in.
	Create(ctx context.Context, s *models.Session) error

	// FindBySecret resolves the bearer secret presented by a client.
	// Implementations return common.ErrorNotFound when it is unknown.
	FindBySecret(ctx context.Context, secret string) (*models.Session, error)

	// GetByID returns common.ErrorNotFound for unknown IDs.
	GetByID(ctx context.Context, id string) (*models.Session, error)

	// DeleteByUser removes every session of userID and reports how many
	// were removed.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes userID's sessions that expired before now.
	DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
