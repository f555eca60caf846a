package movies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/dbx"
	"github.com/mlezhnev/moviehub/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX. Genres are stored
// as a jsonb array to keep their order.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	movie.ID = uuid.NewString()
	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	genres, err := json.Marshal(movie.Genres)
	if err != nil {
		return nil, fmt.Errorf("encoding genres: %w", err)
	}

	query := `
		INSERT INTO movies (id, name, description, year, genres, rating, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		movie.ID, movie.Name, movie.Description, movie.Year, genres,
		nullRating(movie.Rating), movie.CreatedBy, movie.CreatedAt, movie.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return movie, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Movie, error) {
	query := `
		SELECT m.id, m.name, m.description, m.year, m.genres, m.rating,
		       m.created_by, u.username, m.created_at, m.updated_at
		FROM movies m
		JOIN users u ON u.id = m.created_by
		WHERE m.id = $1
	`
	movie, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return movie, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Movie, error) {
	query := `
		SELECT m.id, m.name, m.description, m.year, m.genres, m.rating,
		       m.created_by, u.username, m.created_at, m.updated_at
		FROM movies m
		JOIN users u ON u.id = m.created_by
		ORDER BY m.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Update(ctx context.Context, movie *models.Movie) error {
	movie.UpdatedAt = time.Now().UTC()

	genres, err := json.Marshal(movie.Genres)
	if err != nil {
		return fmt.Errorf("encoding genres: %w", err)
	}

	// created_by is deliberately absent: ownership is immutable.
	query := `
		UPDATE movies
		SET name = $2, description = $3, year = $4, genres = $5, rating = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		movie.ID, movie.Name, movie.Description, movie.Year, genres,
		nullRating(movie.Rating), movie.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM movies
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*models.Movie, error) {
	movie := &models.Movie{}
	var genres []byte
	var rating sql.NullFloat64

	if err := s.Scan(&movie.ID, &movie.Name, &movie.Description, &movie.Year, &genres,
		&rating, &movie.CreatedBy, &movie.CreatorName, &movie.CreatedAt, &movie.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(genres, &movie.Genres); err != nil {
		return nil, fmt.Errorf("decoding genres: %w", err)
	}
	if rating.Valid {
		movie.Rating = &rating.Float64
	}
	return movie, nil
}

func nullRating(rating *float64) sql.NullFloat64 {
	if rating == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *rating, Valid: true}
}
