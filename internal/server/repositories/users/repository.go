// Package users provides repositories for user identity records.
package users

import (
	"context"

	"github.com/mlezhnev/moviehub/internal/server/models"
)

// Repository is the data-access contract for users. Lookups return
// common.ErrNotFound when no record matches.
type Repository interface {
	// Create persists a new user, assigning its id and creation time.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail returns the user with the given (normalized) email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsernameOrEmail returns every user whose username or email
	// collides with the given values. Used by registration to report both
	// conflicts in a single query.
	FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error)
}
