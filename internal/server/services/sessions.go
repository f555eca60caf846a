package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/repositories/sessions"
)

const sessionTokenBytes = 32

// SessionService issues, reads, and destroys server-side sessions and
// carries their one-shot flash messages. Expiry is sliding: it is pushed out
// by TTL at most once per touch interval, not on every read, to bound store
// writes.
type SessionService struct {
	repo          sessions.Repository
	ttl           time.Duration
	touchInterval time.Duration
	now           func() time.Time
}

// NewSessionService constructs a SessionService. ttl is the session lifetime,
// touchInterval the minimum gap between sliding renewals.
func NewSessionService(repo sessions.Repository, ttl, touchInterval time.Duration) *SessionService {
	return &SessionService{
		repo:          repo,
		ttl:           ttl,
		touchInterval: touchInterval,
		now:           time.Now,
	}
}

// Create allocates an opaque token and stores a new session for the user.
func (s *SessionService) Create(ctx context.Context, userID, username string) (string, error) {
	token, err := common.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	now := s.now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		RenewedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Authenticate resolves a token to its session. A missing token, an unknown
// token, or an expired session all yield common.ErrAnonymous; expired
// sessions are evicted so the token becomes permanently invalid. A session
// past its touch interval gets its expiry extended by TTL.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, common.ErrAnonymous
	}

	session, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAnonymous
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	now := s.now()
	if now.After(session.ExpiresAt) {
		_ = s.repo.Delete(ctx, token)
		return nil, common.ErrAnonymous
	}

	if now.Sub(session.RenewedAt) > s.touchInterval {
		session.RenewedAt = now
		session.ExpiresAt = now.Add(s.ttl)
		if err := s.repo.Touch(ctx, token, session.RenewedAt, session.ExpiresAt); err != nil {
			return nil, fmt.Errorf("renewing session: %w", err)
		}
	}
	return session, nil
}

// Destroy evicts the session immediately. Destroying an already-absent token
// is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.Delete(ctx, token)
}

// SetFlash overwrites the pending message slot of the given kind.
func (s *SessionService) SetFlash(ctx context.Context, token, kind, message string) error {
	return s.repo.SetFlash(ctx, token, kind, message)
}

// ConsumeFlash returns the pending messages and clears them atomically; a
// second call within the same request cycle returns nothing. An unknown
// token yields an empty Flash.
func (s *SessionService) ConsumeFlash(ctx context.Context, token string) (models.Flash, error) {
	if token == "" {
		return models.Flash{}, nil
	}
	flash, err := s.repo.ConsumeFlash(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Flash{}, nil
		}
		return models.Flash{}, err
	}
	return flash, nil
}
