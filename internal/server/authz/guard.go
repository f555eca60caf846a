// Package authz composes the session manager and the record store into the
// two authorization gates used by protected movie routes.
package authz

import (
	"context"
	"errors"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/services"
)

// MovieLoader fetches a movie by id; the guard injects it so ownership checks
// stay decoupled from any concrete store.
type MovieLoader func(ctx context.Context, id string) (*models.Movie, error)

// Guard enforces "must be logged in" and "must own this record".
type Guard struct {
	sessions *services.SessionService
}

// NewGuard constructs a Guard over the given session service.
func NewGuard(sessions *services.SessionService) *Guard {
	return &Guard{sessions: sessions}
}

// RequireAuthenticated resolves the token to a live session, or returns
// common.ErrUnauthenticated when the visitor is anonymous. Callers route
// unauthenticated visitors to the login page with an explanatory flash.
func (g *Guard) RequireAuthenticated(ctx context.Context, token string) (*models.Session, error) {
	session, err := g.sessions.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrAnonymous) {
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}
	return session, nil
}

// RequireOwnership loads the movie through load and verifies the session's
// user created it. The loaded movie is returned so the caller can reuse it
// for the subsequent mutation instead of fetching again; that keeps the
// check and the act on a single load. Returns common.ErrNotFound when the
// movie is absent and common.ErrForbidden when it belongs to someone else.
func (g *Guard) RequireOwnership(ctx context.Context, session *models.Session, movieID string, load MovieLoader) (*models.Movie, error) {
	movie, err := load(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie.CreatedBy != session.UserID {
		return nil, common.ErrForbidden
	}
	return movie, nil
}
