// Package repository implements persistence for operator users.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(), plus an in-memory implementation used by tests.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func storeErr(err error, message string) error {
	return fmt.Errorf("%s: %w: %v", message, apperrors.ErrStore, err)
}

// PostgreSQLUserRepository implements user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository instance.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

const pgUserColumns = `id, username, COALESCE(email, ''), password_hash, createdat, updatedat`

// Create inserts a new user row and returns its id.
// Fails with a Conflict error when the username is already taken.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *usersDomain.User) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (username, email, password_hash, createdat, updatedat)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`

	var id int64
	err := querier.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, usersDomain.ErrUserExists
		}
		return 0, storeErr(err, "failed to create user")
	}

	return id, nil
}

// GetByID retrieves a user by its id.
func (p *PostgreSQLUserRepository) GetByID(ctx context.Context, id int64) (*usersDomain.User, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE id = $1`
	return scanUser(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by its unique username.
func (p *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*usersDomain.User, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE username = $1`
	return scanUser(querier.QueryRowContext(ctx, query, username))
}

// List retrieves every user in stable id order.
func (p *PostgreSQLUserRepository) List(ctx context.Context) ([]*usersDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgUserColumns + ` FROM users ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list users")
	}
	defer rows.Close()

	return collectUsers(rows)
}

// DeleteByUsername deletes a user by username. Succeeds silently when absent.
func (p *PostgreSQLUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return storeErr(err, "failed to delete user")
	}
	return nil
}

func scanUser(row *sql.Row) (*usersDomain.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, usersDomain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserRow(row rowScanner) (*usersDomain.User, error) {
	var user usersDomain.User

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr(err, "failed to scan user")
	}

	return &user, nil
}

func collectUsers(rows *sql.Rows) ([]*usersDomain.User, error) {
	var result []*usersDomain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate users")
	}
	return result, nil
}
