// Package repository implements persistence for the access-control entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(), plus in-memory implementations used by tests.
package repository

import (
	"context"
	"database/sql"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// PostgreSQLClientRepository implements client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQL client repository instance.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

const pgClientColumns = `id, name, COALESCE(description, ''), createdat, createdby,
	updatedat, updatedby, automation`

// Create inserts a new client row and returns its id.
// Fails with a Conflict error when the name is already taken.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *aclDomain.Client) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO clients (name, description, createdat, createdby, updatedat, updatedby, automation)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`

	var id int64
	err := querier.QueryRowContext(
		ctx,
		query,
		client.Name,
		client.Description,
		client.CreatedAt,
		client.CreatedBy,
		client.UpdatedAt,
		client.UpdatedBy,
		client.Automation,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, aclDomain.ErrClientExists
		}
		return 0, storeErr(err, "failed to create client")
	}

	return id, nil
}

// GetByID retrieves a client by its id.
func (p *PostgreSQLClientRepository) GetByID(ctx context.Context, id int64) (*aclDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgClientColumns + ` FROM clients WHERE id = $1`
	return scanClient(querier.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a client by its unique name.
func (p *PostgreSQLClientRepository) GetByName(ctx context.Context, name string) (*aclDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgClientColumns + ` FROM clients WHERE name = $1`
	return scanClient(querier.QueryRowContext(ctx, query, name))
}

// List retrieves every client in stable id order.
func (p *PostgreSQLClientRepository) List(ctx context.Context) ([]*aclDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgClientColumns + ` FROM clients ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list clients")
	}
	defer rows.Close()

	return collectClients(rows)
}

// DeleteByName deletes a client by name. The schema cascades the delete to
// its membership rows. Succeeds silently when the name is absent.
func (p *PostgreSQLClientRepository) DeleteByName(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM clients WHERE name = $1`, name); err != nil {
		return storeErr(err, "failed to delete client")
	}
	return nil
}

func scanClient(row *sql.Row) (*aclDomain.Client, error) {
	client, err := scanClientRow(row)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, aclDomain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func scanClientRow(row rowScanner) (*aclDomain.Client, error) {
	var client aclDomain.Client

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Description,
		&client.CreatedAt,
		&client.CreatedBy,
		&client.UpdatedAt,
		&client.UpdatedBy,
		&client.Automation,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err, "failed to scan client")
	}

	return &client, nil
}

func collectClients(rows *sql.Rows) ([]*aclDomain.Client, error) {
	var result []*aclDomain.Client
	for rows.Next() {
		client, err := scanClientRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate clients")
	}
	return result, nil
}
