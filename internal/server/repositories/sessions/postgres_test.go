package sessions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+sessions\b`).
		WithArgs("tok1", "u1", "alice", now, now, now.Add(24*time.Hour), "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Session{
		Token:     "tok1",
		UserID:    "u1",
		Username:  "alice",
		CreatedAt: now,
		RenewedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"token", "user_id", "username", "created_at", "renewed_at", "expires_at", "flash_success", "flash_error",
	}).AddRow("tok1", "u1", "alice", now, now, now.Add(24*time.Hour), "hello", "")

	mock.ExpectQuery(`FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok1").
		WillReturnRows(rows)

	session, err := repo.Get(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "hello", session.Flash.Success)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+sessions`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestTouch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	renewed := time.Now().UTC()
	expires := renewed.Add(24 * time.Hour)

	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+renewed_at\s*=\s*\$2,\s*expires_at\s*=\s*\$3\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok1", renewed, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Touch(context.Background(), "tok1", renewed, expires))
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "tok1"))
}

func TestSetFlash_KnownKinds(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+flash_success\s*=\s*\$2\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok1", "saved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetFlash(context.Background(), "tok1", models.FlashSuccess, "saved"))

	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+flash_error\s*=\s*\$2\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok1", "boom").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetFlash(context.Background(), "tok1", models.FlashError, "boom"))
}

func TestSetFlash_UnknownToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+flash_error\s*=\s*\$2\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("missing", "boom").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetFlash(context.Background(), "missing", models.FlashError, "boom")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetFlash_UnknownKind(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	require.Error(t, repo.SetFlash(context.Background(), "tok1", "sparkle", "msg"))
}

func TestConsumeFlash_ReturnsAndClears(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT\s+flash_success,\s*flash_error\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1\s+FOR\s+UPDATE`).
		WithArgs("tok1").
		WillReturnRows(sqlmock.NewRows([]string{"flash_success", "flash_error"}).AddRow("saved", ""))
	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+flash_success\s*=\s*'',\s*flash_error\s*=\s*''\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	flash, err := repo.ConsumeFlash(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "saved", flash.Success)
	assert.Empty(t, flash.Error)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeFlash_NothingPendingSkipsClear(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).
		WithArgs("tok1").
		WillReturnRows(sqlmock.NewRows([]string{"flash_success", "flash_error"}).AddRow("", ""))
	mock.ExpectCommit()

	flash, err := repo.ConsumeFlash(context.Background(), "tok1")
	require.NoError(t, err)
	assert.True(t, flash.Empty())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeFlash_MissingSession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConsumeFlash(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}
