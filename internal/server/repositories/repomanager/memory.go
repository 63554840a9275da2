package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/teamdeck/internal/dbx"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out the same in-memory repositories for
// every connection; the db argument is ignored and may be nil.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	sessions *sessions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository { return m.sessions }
