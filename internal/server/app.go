// Package server initializes and runs the reference identity authority.
// It picks the storage backend, applies migrations and serves the gRPC API
// until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/server/config"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/teamdeck/internal/server/services"

	gs "github.com/dmitrijs2005/teamdeck/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	identity *services.IdentityService
}

// NewApp connects to PostgreSQL when a DSN is configured and migrates it;
// without one, accounts and sessions live in memory.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN != "" {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		logger.Info(ctx, "Using PostgreSQL storage")
	} else {
		rm = repomanager.NewMemoryRepositoryManager()
		logger.Warn(ctx, "No database DSN configured, accounts are kept in memory")
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		identity: services.NewIdentityService(db, rm, c),
	}, nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.identity)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
