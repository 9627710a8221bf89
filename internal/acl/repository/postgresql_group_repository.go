package repository

import (
	"context"
	"database/sql"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// PostgreSQLGroupRepository implements group persistence for PostgreSQL.
type PostgreSQLGroupRepository struct {
	db *sql.DB
}

// NewPostgreSQLGroupRepository creates a new PostgreSQL group repository instance.
func NewPostgreSQLGroupRepository(db *sql.DB) *PostgreSQLGroupRepository {
	return &PostgreSQLGroupRepository{db: db}
}

const pgGroupColumns = `id, name, COALESCE(description, ''), createdat, createdby,
	updatedat, updatedby, metadata`

// Create inserts a new group row and returns its id.
// Fails with a Conflict error when the name is already taken.
func (p *PostgreSQLGroupRepository) Create(ctx context.Context, group *aclDomain.Group) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	metadata, err := marshalJSONMap(group.Metadata)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO groups (name, description, createdat, createdby, updatedat, updatedby, metadata)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`

	var id int64
	err = querier.QueryRowContext(
		ctx,
		query,
		group.Name,
		group.Description,
		group.CreatedAt,
		group.CreatedBy,
		group.UpdatedAt,
		group.UpdatedBy,
		metadata,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, aclDomain.ErrGroupExists
		}
		return 0, storeErr(err, "failed to create group")
	}

	return id, nil
}

// GetByID retrieves a group by its id.
func (p *PostgreSQLGroupRepository) GetByID(ctx context.Context, id int64) (*aclDomain.Group, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgGroupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(querier.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a group by its unique name.
func (p *PostgreSQLGroupRepository) GetByName(ctx context.Context, name string) (*aclDomain.Group, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgGroupColumns + ` FROM groups WHERE name = $1`
	return scanGroup(querier.QueryRowContext(ctx, query, name))
}

// List retrieves every group in stable id order.
func (p *PostgreSQLGroupRepository) List(ctx context.Context) ([]*aclDomain.Group, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgGroupColumns + ` FROM groups ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list groups")
	}
	defer rows.Close()

	return collectGroups(rows)
}

// DeleteByName deletes a group by name. The schema cascades the delete to its
// membership and grant rows. Succeeds silently when the name is absent.
func (p *PostgreSQLGroupRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM groups WHERE name = $1`, name); err != nil {
		return storeErr(err, "failed to delete group")
	}
	return nil
}

func scanGroup(row *sql.Row) (*aclDomain.Group, error) {
	group, err := scanGroupRow(row)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, aclDomain.ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func scanGroupRow(row rowScanner) (*aclDomain.Group, error) {
	var group aclDomain.Group
	var metadata []byte

	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedAt,
		&group.CreatedBy,
		&group.UpdatedAt,
		&group.UpdatedBy,
		&metadata,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err, "failed to scan group")
	}

	if group.Metadata, err = unmarshalJSONMap(metadata); err != nil {
		return nil, err
	}

	return &group, nil
}

func collectGroups(rows *sql.Rows) ([]*aclDomain.Group, error) {
	var result []*aclDomain.Group
	for rows.Next() {
		group, err := scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate groups")
	}
	return result, nil
}
