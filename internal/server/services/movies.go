package services

import (
	"context"
	"fmt"

	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/repositories/movies"
)

// MovieInput carries the validated fields of the add/edit movie form.
type MovieInput struct {
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      *float64
}

// MovieService exposes the movie catalog operations. Ownership is recorded
// once at creation; edits go through the already-loaded record handed over
// by the authorization guard, so no second fetch happens between the
// ownership check and the write.
type MovieService struct {
	repo movies.Repository
}

// NewMovieService constructs a MovieService.
func NewMovieService(repo movies.Repository) *MovieService {
	return &MovieService{repo: repo}
}

// List returns all movies, newest first.
func (s *MovieService) List(ctx context.Context) ([]*models.Movie, error) {
	return s.repo.List(ctx)
}

// Get returns a single movie or common.ErrNotFound.
func (s *MovieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	return s.repo.Get(ctx, id)
}

// Create persists a new movie owned by userID.
func (s *MovieService) Create(ctx context.Context, input MovieInput, userID string) (*models.Movie, error) {
	movie := &models.Movie{
		Name:        input.Name,
		Description: input.Description,
		Year:        input.Year,
		Genres:      input.Genres,
		Rating:      input.Rating,
		CreatedBy:   userID,
	}
	movie, err := s.repo.Create(ctx, movie)
	if err != nil {
		return nil, fmt.Errorf("creating movie: %w", err)
	}
	return movie, nil
}

// Update rewrites the editable fields of an already-loaded movie. CreatedBy
// is never touched.
func (s *MovieService) Update(ctx context.Context, movie *models.Movie, input MovieInput) error {
	movie.Name = input.Name
	movie.Description = input.Description
	movie.Year = input.Year
	movie.Genres = input.Genres
	movie.Rating = input.Rating

	if err := s.repo.Update(ctx, movie); err != nil {
		return fmt.Errorf("updating movie: %w", err)
	}
	return nil
}

// Delete removes a movie by id.
func (s *MovieService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting movie: %w", err)
	}
	return nil
}
