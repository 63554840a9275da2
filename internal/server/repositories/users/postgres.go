package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/dmitrijs2005/teamdeck/internal/dbx"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	prefs, err := marshalPrefs(user.Prefs)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, salt, prefs)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Salt, prefs).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `
	SELECT id, name, email, password_hash, salt, prefs, created_at
	FROM users
`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+`WHERE id = $1`, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+`WHERE email = $1`, email))
}

func (r *PostgresRepository) UpdatePrefs(ctx context.Context, id string, prefs map[string]any) (*models.User, error) {
	raw, err := marshalPrefs(prefs)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE users SET prefs = $2
		WHERE id = $1
		RETURNING id, name, email, password_hash, salt, prefs, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, raw))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		u     models.User
		prefs []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Salt, &prefs, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(prefs, &u.Prefs); err != nil {
		return nil, fmt.Errorf("decode prefs: %w", err)
	}
	if u.Prefs == nil {
		u.Prefs = map[string]any{}
	}
	return &u, nil
}

func marshalPrefs(p map[string]any) ([]byte, error) {
	if p == nil {
		p = map[string]any{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode prefs: %w", err)
	}
	return b, nil
}
