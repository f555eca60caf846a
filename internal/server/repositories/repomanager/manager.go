// Package repomanager wires repository implementations together behind a
// single constructor and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlezhnev/moviehub/internal/server/repositories/movies"
	"github.com/mlezhnev/moviehub/internal/server/repositories/sessions"
	"github.com/mlezhnev/moviehub/internal/server/repositories/users"
)

// RepositoryManager vends the repositories used by the services.
type RepositoryManager interface {
	Users() users.Repository
	Movies() movies.Repository
	Sessions() sessions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
