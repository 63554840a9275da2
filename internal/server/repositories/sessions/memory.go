package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
)

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]*models.Session
	bySecret map[string]string
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[string]*models.Session),
		bySecret: make(map[string]string),
		now:      time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; ok {
		return common.ErrorAlreadyExists
	}
	if _, ok := r.bySecret[s.Secret]; ok {
		return common.ErrorAlreadyExists
	}
	s.CreatedAt = r.now().UTC()
	c := *s
	r.byID[c.ID] = &c
	r.bySecret[c.Secret] = c.ID
	return nil
}

func (r *MemoryRepository) FindBySecret(_ context.Context, secret string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySecret[secret]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *r.byID[id]
	return &c, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *s
	return &c, nil
}

func (r *MemoryRepository) DeleteByUser(_ context.Context, userID string) (int64, error) {
	return r.deleteWhere(func(s *models.Session) bool { return s.UserID == userID }), nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, userID string, now time.Time) (int64, error) {
	return r.deleteWhere(func(s *models.Session) bool {
		return s.UserID == userID && s.Expired(now)
	}), nil
}

func (r *MemoryRepository) deleteWhere(match func(*models.Session) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.byID {
		if match(s) {
			delete(r.bySecret, s.Secret)
			delete(r.byID, id)
			n++
		}
	}
	return n
}
