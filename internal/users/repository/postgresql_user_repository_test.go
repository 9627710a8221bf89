package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keywhiz/internal/errors"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "createdat", "updatedat"}

func testUser() *usersDomain.User {
	now := time.Now().UTC()
	return &usersDomain.User{
		Username:       "operator",
		Email:          "operator@example.com",
		HashedPassword: "$argon2id$stub",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := repo.Create(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_Create_DuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.Create(context.Background(), testUser())
	assert.ErrorIs(t, err, usersDomain.ErrUserExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_GetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLUserRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(userRowColumns).AddRow(
		int64(3), "operator", "operator@example.com", "$argon2id$stub", now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("operator").
		WillReturnRows(rows)

	user, err := repo.GetByUsername(context.Background(), "operator")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "operator@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_GetByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err = repo.GetByUsername(context.Background(), "missing")
	assert.ErrorIs(t, err, usersDomain.ErrUserNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_DeleteByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE username = $1")).
		WithArgs("operator").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByUsername(context.Background(), "operator"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
