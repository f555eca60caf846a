package movies

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository, used in tests and
// by the in-memory repository manager. Creator usernames are resolved through
// the injected lookup so list/detail views match the Postgres join.
type MemoryRepository struct {
	mu         sync.Mutex
	movies     map[string]*models.Movie
	lookupUser func(ctx context.Context, id string) (string, error)
}

// NewMemoryRepository constructs an empty MemoryRepository. lookupUser may be
// nil, in which case creator names stay empty.
func NewMemoryRepository(lookupUser func(ctx context.Context, id string) (string, error)) *MemoryRepository {
	return &MemoryRepository{
		movies:     make(map[string]*models.Movie),
		lookupUser: lookupUser,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	movie.ID = uuid.NewString()
	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	stored := *movie
	stored.Genres = append([]string(nil), movie.Genres...)
	r.movies[movie.ID] = &stored
	return movie, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Movie, error) {
	r.mu.Lock()
	stored, ok := r.movies[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.ErrNotFound
	}
	movie := *stored
	movie.Genres = append([]string(nil), stored.Genres...)
	r.mu.Unlock()

	r.resolveCreator(ctx, &movie)
	return &movie, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Movie, error) {
	r.mu.Lock()
	list := make([]*models.Movie, 0, len(r.movies))
	for _, stored := range r.movies {
		movie := *stored
		movie.Genres = append([]string(nil), stored.Genres...)
		list = append(list, &movie)
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	for _, movie := range list {
		r.resolveCreator(ctx, movie)
	}
	return list, nil
}

func (r *MemoryRepository) Update(ctx context.Context, movie *models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.movies[movie.ID]
	if !ok {
		return common.ErrNotFound
	}

	// CreatedBy is immutable after creation.
	stored.Name = movie.Name
	stored.Description = movie.Description
	stored.Year = movie.Year
	stored.Genres = append([]string(nil), movie.Genres...)
	stored.Rating = movie.Rating
	stored.UpdatedAt = time.Now().UTC()
	movie.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.movies, id)
	return nil
}

func (r *MemoryRepository) resolveCreator(ctx context.Context, movie *models.Movie) {
	if r.lookupUser == nil {
		return
	}
	if name, err := r.lookupUser(ctx, movie.CreatedBy); err == nil {
		movie.CreatorName = name
	}
}
