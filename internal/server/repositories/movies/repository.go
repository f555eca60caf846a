// Package movies provides repositories for the shared movie catalog.
package movies

import (
	"context"

	"github.com/mlezhnev/moviehub/internal/server/models"
)

// Repository is the data-access contract for movies. Get returns
// common.ErrNotFound when no record matches. Update never touches CreatedBy.
type Repository interface {
	// Create persists a new movie, assigning its id and timestamps.
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)

	// Get returns a single movie with its creator's username populated.
	Get(ctx context.Context, id string) (*models.Movie, error)

	// List returns all movies, newest first, with creator usernames.
	List(ctx context.Context) ([]*models.Movie, error)

	// Update rewrites the editable fields (name, description, year, genres,
	// rating) and bumps UpdatedAt.
	Update(ctx context.Context, movie *models.Movie) error

	// Delete removes a movie by id.
	Delete(ctx context.Context, id string) error
}
