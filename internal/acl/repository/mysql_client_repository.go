package repository

import (
	"context"
	"database/sql"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/database"
)

// MySQLClientRepository implements client persistence for MySQL.
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQL client repository instance.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

const mysqlClientColumns = `id, name, COALESCE(description, ''), createdat, createdby,
	updatedat, updatedby, automation`

// Create inserts a new client row and returns its id.
// Fails with a Conflict error when the name is already taken.
func (m *MySQLClientRepository) Create(ctx context.Context, client *aclDomain.Client) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO clients (name, description, createdat, createdby, updatedat, updatedby, automation)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		client.Name,
		client.Description,
		client.CreatedAt,
		client.CreatedBy,
		client.UpdatedAt,
		client.UpdatedBy,
		client.Automation,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, aclDomain.ErrClientExists
		}
		return 0, storeErr(err, "failed to create client")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeErr(err, "failed to get client id")
	}

	return id, nil
}

// GetByID retrieves a client by its id.
func (m *MySQLClientRepository) GetByID(ctx context.Context, id int64) (*aclDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + mysqlClientColumns + ` FROM clients WHERE id = ?`
	return scanClient(querier.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a client by its unique name.
func (m *MySQLClientRepository) GetByName(ctx context.Context, name string) (*aclDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + mysqlClientColumns + ` FROM clients WHERE name = ?`
	return scanClient(querier.QueryRowContext(ctx, query, name))
}

// List retrieves every client in stable id order.
func (m *MySQLClientRepository) List(ctx context.Context) ([]*aclDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlClientColumns + ` FROM clients ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list clients")
	}
	defer rows.Close()

	return collectClients(rows)
}

// DeleteByName deletes a client by name. The schema cascades the delete to
// its membership rows. Succeeds silently when the name is absent.
func (m *MySQLClientRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM clients WHERE name = ?`, name); err != nil {
		return storeErr(err, "failed to delete client")
	}
	return nil
}
