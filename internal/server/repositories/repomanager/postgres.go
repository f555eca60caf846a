package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mlezhnev/moviehub/internal/server/migrations"
	"github.com/mlezhnev/moviehub/internal/server/repositories/movies"
	"github.com/mlezhnev/moviehub/internal/server/repositories/sessions"
	"github.com/mlezhnev/moviehub/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to one
// shared connection pool.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// NewPostgresRepositoryManager opens a pgx connection pool for the given DSN
// and constructs the manager. The caller is expected to run migrations before
// serving traffic.
func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	return &PostgresRepositoryManager{db: db}, db, nil
}

// Users returns the users repository.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

// Movies returns the movies repository.
func (m *PostgresRepositoryManager) Movies() movies.Repository {
	return movies.NewPostgresRepository(m.db)
}

// Sessions returns the sessions repository.
func (m *PostgresRepositoryManager) Sessions() sessions.Repository {
	return sessions.NewPostgresRepository(m.db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
