package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlezhnev/moviehub/internal/server/repositories/movies"
	"github.com/mlezhnev/moviehub/internal/server/repositories/sessions"
	"github.com/mlezhnev/moviehub/internal/server/repositories/users"
)

// MemoryRepositoryManager vends in-memory repositories. Used in tests and for
// running the server without a database.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	movies   *movies.MemoryRepository
	sessions *sessions.MemoryRepository
}

// NewMemoryRepositoryManager constructs a manager over empty in-memory stores.
func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	userRepo := users.NewMemoryRepository()
	return &MemoryRepositoryManager{
		users:    userRepo,
		movies:   movies.NewMemoryRepository(userRepo.UsernameByID),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Movies() movies.Repository { return m.movies }

func (m *MemoryRepositoryManager) Sessions() sessions.Repository { return m.sessions }

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
