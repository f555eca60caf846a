package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository, used in tests and
// by the in-memory repository manager.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

// UsernameByID resolves a user id to its username. Not part of Repository;
// the in-memory movies store uses it in place of the SQL join.
func (r *MemoryRepository) UsernameByID(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		return u.Username, nil
	}
	return "", common.ErrNotFound
}

func (r *MemoryRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found []*models.User
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			copied := *u
			found = append(found, &copied)
		}
	}
	return found, nil
}
