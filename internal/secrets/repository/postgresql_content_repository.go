package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// PostgreSQLContentRepository implements content revision persistence for PostgreSQL.
type PostgreSQLContentRepository struct {
	db *sql.DB
}

// NewPostgreSQLContentRepository creates a new PostgreSQL content repository instance.
func NewPostgreSQLContentRepository(db *sql.DB) *PostgreSQLContentRepository {
	return &PostgreSQLContentRepository{db: db}
}

const pgContentColumns = `id, secretid, encrypted_content, version, createdat, createdby, updatedat, updatedby`

// Create inserts a content revision and returns its id.
// Fails with a Conflict error when (series, version) already exists.
func (p *PostgreSQLContentRepository) Create(
	ctx context.Context,
	content *secretsDomain.SecretContent,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets_content (secretid, encrypted_content, version, createdat, createdby, updatedat, updatedby)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`

	var id int64
	err := querier.QueryRowContext(
		ctx,
		query,
		content.SeriesID,
		content.EncryptedContent,
		content.Version,
		content.CreatedAt,
		content.CreatedBy,
		content.UpdatedAt,
		content.UpdatedBy,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, secretsDomain.ErrSecretExists
		}
		return 0, storeErr(err, "failed to create secret content")
	}

	return id, nil
}

// GetByID retrieves a content revision by its id.
func (p *PostgreSQLContentRepository) GetByID(
	ctx context.Context,
	id int64,
) (*secretsDomain.SecretContent, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgContentColumns + ` FROM secrets_content WHERE id = $1`
	return p.scanContent(querier.QueryRowContext(ctx, query, id))
}

// GetBySeriesAndVersion retrieves the revision of a series carrying the exact
// version token; the empty version selects the unversioned row.
func (p *PostgreSQLContentRepository) GetBySeriesAndVersion(
	ctx context.Context,
	seriesID int64,
	version string,
) (*secretsDomain.SecretContent, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgContentColumns + ` FROM secrets_content WHERE secretid = $1 AND version = $2`
	return p.scanContent(querier.QueryRowContext(ctx, query, seriesID, version))
}

// LatestBySeries retrieves the revision with the highest content id.
func (p *PostgreSQLContentRepository) LatestBySeries(
	ctx context.Context,
	seriesID int64,
) (*secretsDomain.SecretContent, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgContentColumns + ` FROM secrets_content WHERE secretid = $1 ORDER BY id DESC LIMIT 1`
	return p.scanContent(querier.QueryRowContext(ctx, query, seriesID))
}

// ListBySeries retrieves every revision of a series in ascending id order.
func (p *PostgreSQLContentRepository) ListBySeries(
	ctx context.Context,
	seriesID int64,
) ([]*secretsDomain.SecretContent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgContentColumns + ` FROM secrets_content WHERE secretid = $1 ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, storeErr(err, "failed to list secret contents")
	}
	defer rows.Close()

	var result []*secretsDomain.SecretContent
	for rows.Next() {
		content, err := p.scanContentRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, content)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate secret contents")
	}

	return result, nil
}

// VersionsBySeries returns every distinct version of a series, the empty
// version included, in insertion (content id) order.
func (p *PostgreSQLContentRepository) VersionsBySeries(
	ctx context.Context,
	seriesID int64,
) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT version FROM secrets_content WHERE secretid = $1 ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, storeErr(err, "failed to list secret versions")
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, storeErr(err, "failed to scan secret version")
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate secret versions")
	}

	return versions, nil
}

// DeleteBySeries removes every revision of a series.
func (p *PostgreSQLContentRepository) DeleteBySeries(ctx context.Context, seriesID int64) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM secrets_content WHERE secretid = $1`, seriesID); err != nil {
		return storeErr(err, "failed to delete secret contents")
	}
	return nil
}

// DeleteBySeriesAndVersion removes a single revision. Succeeds silently when
// the version is absent.
func (p *PostgreSQLContentRepository) DeleteBySeriesAndVersion(
	ctx context.Context,
	seriesID int64,
	version string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets_content WHERE secretid = $1 AND version = $2`
	if _, err := querier.ExecContext(ctx, query, seriesID, version); err != nil {
		return storeErr(err, "failed to delete secret content version")
	}
	return nil
}

func (p *PostgreSQLContentRepository) scanContent(row *sql.Row) (*secretsDomain.SecretContent, error) {
	content, err := p.scanContentRow(row)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrContentNotFound
		}
		return nil, err
	}
	return content, nil
}

func (p *PostgreSQLContentRepository) scanContentRow(row rowScanner) (*secretsDomain.SecretContent, error) {
	var content secretsDomain.SecretContent

	err := row.Scan(
		&content.ID,
		&content.SeriesID,
		&content.EncryptedContent,
		&content.Version,
		&content.CreatedAt,
		&content.CreatedBy,
		&content.UpdatedAt,
		&content.UpdatedBy,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err, "failed to scan secret content")
	}

	return &content, nil
}
