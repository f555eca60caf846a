package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository. The mutex
// serializes flash consumption per token, preserving the read-exactly-once
// guarantee without a database.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]*models.Session)}
}

func (r *MemoryRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.sessions[session.Token] = &stored
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	session := *stored
	return &session, nil
}

func (r *MemoryRepository) Touch(ctx context.Context, token string, renewedAt, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.sessions[token]; ok {
		stored.RenewedAt = renewedAt
		stored.ExpiresAt = expiresAt
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *MemoryRepository) SetFlash(ctx context.Context, token, kind, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[token]
	if !ok {
		return common.ErrNotFound
	}
	switch kind {
	case models.FlashSuccess:
		stored.Flash.Success = message
	case models.FlashError:
		stored.Flash.Error = message
	}
	return nil
}

func (r *MemoryRepository) ConsumeFlash(ctx context.Context, token string) (models.Flash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[token]
	if !ok {
		return models.Flash{}, common.ErrNotFound
	}
	flash := stored.Flash
	stored.Flash = models.Flash{}
	return flash, nil
}
