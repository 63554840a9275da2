package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/teamdeck/internal/dbx"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or
// transaction, so services can run several of them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
