package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// PostgreSQLSeriesRepository implements secret series persistence for PostgreSQL.
type PostgreSQLSeriesRepository struct {
	db *sql.DB
}

// NewPostgreSQLSeriesRepository creates a new PostgreSQL series repository instance.
func NewPostgreSQLSeriesRepository(db *sql.DB) *PostgreSQLSeriesRepository {
	return &PostgreSQLSeriesRepository{db: db}
}

const pgSeriesColumns = `id, name, COALESCE(description, ''), createdat, createdby,
	updatedat, updatedby, COALESCE(type, ''), options, metadata`

// Create inserts a new series row and returns its id.
// Fails with a Conflict error when the name is already taken.
func (p *PostgreSQLSeriesRepository) Create(
	ctx context.Context,
	series *secretsDomain.SecretSeries,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	options, err := marshalJSONMap(series.GenerationOptions)
	if err != nil {
		return 0, err
	}
	metadata, err := marshalJSONMap(series.Metadata)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO secrets (name, description, createdat, createdby, updatedat, updatedby, type, options, metadata)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`

	var id int64
	err = querier.QueryRowContext(
		ctx,
		query,
		series.Name,
		series.Description,
		series.CreatedAt,
		series.CreatedBy,
		series.UpdatedAt,
		series.UpdatedBy,
		series.Type,
		options,
		metadata,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, secretsDomain.ErrSeriesExists
		}
		return 0, storeErr(err, "failed to create secret series")
	}

	return id, nil
}

// GetByID retrieves a series by its id.
func (p *PostgreSQLSeriesRepository) GetByID(
	ctx context.Context,
	id int64,
) (*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgSeriesColumns + ` FROM secrets WHERE id = $1`
	return p.scanSeries(querier.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a series by its unique name.
func (p *PostgreSQLSeriesRepository) GetByName(
	ctx context.Context,
	name string,
) (*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgSeriesColumns + ` FROM secrets WHERE name = $1`
	return p.scanSeries(querier.QueryRowContext(ctx, query, name))
}

// List retrieves every series in stable id order.
func (p *PostgreSQLSeriesRepository) List(ctx context.Context) ([]*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgSeriesColumns + ` FROM secrets ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list secret series")
	}
	defer rows.Close()

	var result []*secretsDomain.SecretSeries
	for rows.Next() {
		series, err := p.scanSeriesRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, series)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate secret series")
	}

	return result, nil
}

// DeleteByName deletes a series by name. The schema cascades the delete to
// all content rows. Succeeds silently when the name is absent.
func (p *PostgreSQLSeriesRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE name = $1`, name); err != nil {
		return storeErr(err, "failed to delete secret series")
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (p *PostgreSQLSeriesRepository) scanSeries(row *sql.Row) (*secretsDomain.SecretSeries, error) {
	series, err := p.scanSeriesRow(row)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSeriesNotFound
		}
		return nil, err
	}
	return series, nil
}

func (p *PostgreSQLSeriesRepository) scanSeriesRow(row rowScanner) (*secretsDomain.SecretSeries, error) {
	var series secretsDomain.SecretSeries
	var options, metadata []byte

	err := row.Scan(
		&series.ID,
		&series.Name,
		&series.Description,
		&series.CreatedAt,
		&series.CreatedBy,
		&series.UpdatedAt,
		&series.UpdatedBy,
		&series.Type,
		&options,
		&metadata,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err, "failed to scan secret series")
	}

	if series.GenerationOptions, err = unmarshalJSONMap(options); err != nil {
		return nil, err
	}
	if series.Metadata, err = unmarshalJSONMap(metadata); err != nil {
		return nil, err
	}

	return &series, nil
}
