package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/dmitrijs2005/teamdeck/internal/dbx"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, secret, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Secret, s.ExpiresAt).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

const selectSession = `
	SELECT id, user_id, secret, expires_at, created_at
	FROM sessions
`

func (r *PostgresRepository) FindBySecret(ctx context.Context, secret string) (*models.Session, error) {
	return scanOne(r.db.QueryRowContext(ctx, selectSession+`WHERE secret = $1`, secret))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	return scanOne(r.db.QueryRowContext(ctx, selectSession+`WHERE id = $1`, id))
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1
	`
	return r.exec(ctx, query, userID)
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1 AND expires_at <= $2
	`
	return r.exec(ctx, query, userID, now)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanOne(row *sql.Row) (*models.Session, error) {
	s := &models.Session{}
	if err := row.Scan(&s.ID, &s.UserID, &s.Secret, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
