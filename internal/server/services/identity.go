// Package services contains server-side business logic. IdentityService
// backs the identity authority: accounts, sessions, JWTs and preferences.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/dmitrijs2005/teamdeck/internal/cryptox"
	"github.com/dmitrijs2005/teamdeck/internal/dbx"
	"github.com/dmitrijs2005/teamdeck/internal/server/auth"
	"github.com/dmitrijs2005/teamdeck/internal/server/config"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password CreateUser accepts.
const MinPasswordLength = 8

// UniqueID asks CreateUser to generate the account ID.
const UniqueID = "unique()"

const secretSize = 32

type IdentityService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	jwtValidity     time.Duration
	sessionValidity time.Duration
	now             func() time.Time
}

// NewIdentityService wires the service to its repositories. db may be nil
// when m keeps everything in memory; transactions are skipped then.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:              db,
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		jwtValidity:     cfg.JWTValidity,
		sessionValidity: cfg.SessionValidity,
		now:             time.Now,
	}
}

func (s *IdentityService) conn() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

func (s *IdentityService) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers an account. An empty id or UniqueID gets a fresh
// UUID. The email is matched case-insensitively from then on.
func (s *IdentityService) CreateUser(ctx context.Context, id, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: malformed email", common.ErrorInvalidArgument)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidArgument, MinPasswordLength)
	}
	if id == "" || id == UniqueID {
		id = uuid.NewString()
	}

	salt, hash := cryptox.NewPasswordHash([]byte(password))
	user := &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Prefs:        map[string]any{},
	}

	u, err := s.repomanager.Users(s.conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// CreateSession checks the credentials and opens a new session. The
// caller's expired sessions are pruned in the same transaction.
func (s *IdentityService) CreateSession(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.repomanager.Users(s.conn()).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	secret, err := common.MakeRandHexString(secretSize)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Secret:    secret,
		ExpiresAt: now.Add(s.sessionValidity),
	}

	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)
		if _, err := repo.DeleteExpired(ctx, user.ID, now); err != nil {
			return fmt.Errorf("error pruning sessions: %w", err)
		}
		if err := repo.Create(ctx, session); err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a bearer secret to its live session.
func (s *IdentityService) Authenticate(ctx context.Context, secret string) (*models.Session, error) {
	if secret == "" {
		return nil, common.ErrorUnauthorized
	}
	session, err := s.repomanager.Sessions(s.conn()).FindBySecret(ctx, secret)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, common.ErrSessionExpired
	}
	return session, nil
}

// GetSession returns current itself for common.CurrentSessionID, or
// another session of the same user. Sessions of other users are reported
// as not found.
func (s *IdentityService) GetSession(ctx context.Context, current *models.Session, id string) (*models.Session, error) {
	if id == "" || id == common.CurrentSessionID || id == current.ID {
		return current, nil
	}
	session, err := s.repomanager.Sessions(s.conn()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != current.UserID || session.Expired(s.now()) {
		return nil, common.ErrorNotFound
	}
	return session, nil
}

func (s *IdentityService) GetAccount(ctx context.Context, current *models.Session) (*models.User, error) {
	user, err := s.repomanager.Users(s.conn()).GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// user was removed underneath a live session
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) CreateJWT(_ context.Context, current *models.Session) (string, error) {
	token, err := auth.GenerateToken(current.UserID, current.ID, s.jwtSecret, s.jwtValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// UpdatePrefs replaces the caller's preferences wholesale.
func (s *IdentityService) UpdatePrefs(ctx context.Context, current *models.Session, prefs map[string]any) (*models.User, error) {
	if prefs == nil {
		prefs = map[string]any{}
	}
	return s.repomanager.Users(s.conn()).UpdatePrefs(ctx, current.UserID, prefs)
}

// DeleteSessions signs the caller out everywhere.
func (s *IdentityService) DeleteSessions(ctx context.Context, current *models.Session) error {
	if _, err := s.repomanager.Sessions(s.conn()).DeleteByUser(ctx, current.UserID); err != nil {
		return fmt.Errorf("error deleting sessions: %w", err)
	}
	return nil
}
