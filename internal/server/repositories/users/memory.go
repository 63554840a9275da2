package users

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
)

// MemoryRepository keeps users in process memory. Returned users are
// copies; callers may modify them freely.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	prefs, err := clonePrefs(user.Prefs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := *user
	stored.Prefs = prefs
	stored.CreatedAt = r.now().UTC()
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID

	user.CreatedAt = stored.CreatedAt
	return user, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u)
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) UpdatePrefs(_ context.Context, id string, prefs map[string]any) (*models.User, error) {
	p, err := clonePrefs(prefs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Prefs = p
	return copyUser(u)
}

func copyUser(u *models.User) (*models.User, error) {
	c := *u
	p, err := clonePrefs(u.Prefs)
	if err != nil {
		return nil, err
	}
	c.Prefs = p
	return &c, nil
}

// clonePrefs deep-copies prefs through JSON, so stored values have the same
// shapes a database round trip would give them.
func clonePrefs(p map[string]any) (map[string]any, error) {
	out := map[string]any{}
	if len(p) == 0 {
		return out, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode prefs: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode prefs: %w", err)
	}
	return out, nil
}
