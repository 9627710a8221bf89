package repository

import (
	"context"
	"database/sql"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/database"
)

// MySQLGroupRepository implements group persistence for MySQL.
type MySQLGroupRepository struct {
	db *sql.DB
}

// NewMySQLGroupRepository creates a new MySQL group repository instance.
func NewMySQLGroupRepository(db *sql.DB) *MySQLGroupRepository {
	return &MySQLGroupRepository{db: db}
}

const mysqlGroupColumns = `id, name, COALESCE(description, ''), createdat, createdby,
	updatedat, updatedby, metadata`

// Create inserts a new group row and returns its id.
// Fails with a Conflict error when the name is already taken.
func (m *MySQLGroupRepository) Create(ctx context.Context, group *aclDomain.Group) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	metadata, err := marshalJSONMap(group.Metadata)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO groups (name, description, createdat, createdby, updatedat, updatedby, metadata)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		group.Name,
		group.Description,
		group.CreatedAt,
		group.CreatedBy,
		group.UpdatedAt,
		group.UpdatedBy,
		metadata,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, aclDomain.ErrGroupExists
		}
		return 0, storeErr(err, "failed to create group")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeErr(err, "failed to get group id")
	}

	return id, nil
}

// GetByID retrieves a group by its id.
func (m *MySQLGroupRepository) GetByID(ctx context.Context, id int64) (*aclDomain.Group, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + mysqlGroupColumns + ` FROM groups WHERE id = ?`
	return scanGroup(querier.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a group by its unique name.
func (m *MySQLGroupRepository) GetByName(ctx context.Context, name string) (*aclDomain.Group, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + mysqlGroupColumns + ` FROM groups WHERE name = ?`
	return scanGroup(querier.QueryRowContext(ctx, query, name))
}

// List retrieves every group in stable id order.
func (m *MySQLGroupRepository) List(ctx context.Context) ([]*aclDomain.Group, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlGroupColumns + ` FROM groups ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list groups")
	}
	defer rows.Close()

	return collectGroups(rows)
}

// DeleteByName deletes a group by name. The schema cascades the delete to its
// membership and grant rows. Succeeds silently when the name is absent.
func (m *MySQLGroupRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, name); err != nil {
		return storeErr(err, "failed to delete group")
	}
	return nil
}
