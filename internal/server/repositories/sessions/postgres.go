package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/dbx"
	"github.com/mlezhnev/moviehub/internal/server/models"
)

// PostgresRepository implements Repository over *sql.DB. It needs the full
// connection rather than a DBTX because ConsumeFlash runs a short
// SELECT-FOR-UPDATE transaction to make read-and-clear atomic.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a repository bound to the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, username, created_at, renewed_at, expires_at, flash_success, flash_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.ExecContext(ctx, query,
		session.Token, session.UserID, session.Username,
		session.CreatedAt, session.RenewedAt, session.ExpiresAt,
		session.Flash.Success, session.Flash.Error); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT token, user_id, username, created_at, renewed_at, expires_at, flash_success, flash_error
		FROM sessions
		WHERE token = $1
	`
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token, &session.UserID, &session.Username,
		&session.CreatedAt, &session.RenewedAt, &session.ExpiresAt,
		&session.Flash.Success, &session.Flash.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, token string, renewedAt, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET renewed_at = $2, expires_at = $3
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token, renewedAt, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM sessions
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetFlash(ctx context.Context, token, kind, message string) error {
	var query string
	switch kind {
	case models.FlashSuccess:
		query = `UPDATE sessions SET flash_success = $2 WHERE token = $1`
	case models.FlashError:
		query = `UPDATE sessions SET flash_error = $2 WHERE token = $1`
	default:
		return fmt.Errorf("unknown flash kind %q", kind)
	}
	res, err := r.db.ExecContext(ctx, query, token, message)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ConsumeFlash(ctx context.Context, token string) (models.Flash, error) {
	var flash models.Flash

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		selectQuery := `
			SELECT flash_success, flash_error
			FROM sessions
			WHERE token = $1
			FOR UPDATE
		`
		if err := tx.QueryRowContext(ctx, selectQuery, token).
			Scan(&flash.Success, &flash.Error); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		if flash.Empty() {
			return nil
		}
		clearQuery := `
			UPDATE sessions
			SET flash_success = '', flash_error = ''
			WHERE token = $1
		`
		if _, err := tx.ExecContext(ctx, clearQuery, token); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Flash{}, err
	}
	return flash, nil
}
