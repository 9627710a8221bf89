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
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

var contentRowColumns = []string{
	"id", "secretid", "encrypted_content", "version",
	"createdat", "createdby", "updatedat", "updatedby",
}

func testContent() *secretsDomain.SecretContent {
	now := time.Now().UTC()
	return &secretsDomain.SecretContent{
		SeriesID:         7,
		EncryptedContent: "ZW52ZWxvcGU=.key-1",
		Version:          "00000192aa10beef",
		CreatedAt:        now,
		CreatedBy:        "automation-client",
		UpdatedAt:        now,
		UpdatedBy:        "automation-client",
	}
}

func TestPostgreSQLContentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO secrets_content")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := repo.Create(context.Background(), testContent())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_Create_DuplicateVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO secrets_content")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.Create(context.Background(), testContent())
	assert.ErrorIs(t, err, secretsDomain.ErrSecretExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_GetBySeriesAndVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(contentRowColumns).AddRow(
		int64(3), int64(7), "ZW52ZWxvcGU=.key-1", "00000192aa10beef",
		now, "c", now, "c",
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE secretid = $1 AND version = $2")).
		WithArgs(int64(7), "00000192aa10beef").
		WillReturnRows(rows)

	content, err := repo.GetBySeriesAndVersion(context.Background(), 7, "00000192aa10beef")
	require.NoError(t, err)
	assert.Equal(t, int64(3), content.ID)
	assert.Equal(t, "ZW52ZWxvcGU=.key-1", content.EncryptedContent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_GetBySeriesAndVersion_EmptyVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(contentRowColumns).AddRow(
		int64(1), int64(7), "ZW52ZWxvcGU=.key-1", "", now, "c", now, "c",
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE secretid = $1 AND version = $2")).
		WithArgs(int64(7), "").
		WillReturnRows(rows)

	content, err := repo.GetBySeriesAndVersion(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Empty(t, content.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_GetBySeriesAndVersion_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE secretid = $1 AND version = $2")).
		WithArgs(int64(7), "missing").
		WillReturnRows(sqlmock.NewRows(contentRowColumns))

	_, err = repo.GetBySeriesAndVersion(context.Background(), 7, "missing")
	assert.ErrorIs(t, err, secretsDomain.ErrContentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_LatestBySeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(contentRowColumns).AddRow(
		int64(9), int64(7), "bGF0ZXN0.key-1", "00000192aa10bf00", now, "c", now, "c",
	)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	content, err := repo.LatestBySeries(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(9), content.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_ListBySeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(contentRowColumns).
		AddRow(int64(1), int64(7), "djE=.key-1", "", now, "c", now, "c").
		AddRow(int64(2), int64(7), "djI=.key-1", "00000192aa10beef", now, "c", now, "c")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE secretid = $1 ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	contents, err := repo.ListBySeries(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, int64(1), contents[0].ID)
	assert.Equal(t, int64(2), contents[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_VersionsBySeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)

	rows := sqlmock.NewRows([]string{"version"}).
		AddRow("").
		AddRow("00000192aa10beef")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM secrets_content")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	versions, err := repo.VersionsBySeries(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "00000192aa10beef"}, versions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLContentRepository_DeleteBySeriesAndVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLContentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM secrets_content WHERE secretid = $1 AND version = $2")).
		WithArgs(int64(7), "00000192aa10beef").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeleteBySeriesAndVersion(context.Background(), 7, "00000192aa10beef")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
