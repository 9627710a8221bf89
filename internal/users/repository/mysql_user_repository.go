package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

// MySQLUserRepository implements user persistence for MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository instance.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

const mysqlUserColumns = `id, username, COALESCE(email, ''), password_hash, createdat, updatedat`

// Create inserts a new user row and returns its id.
// Fails with a Conflict error when the username is already taken.
func (m *MySQLUserRepository) Create(ctx context.Context, user *usersDomain.User) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (username, email, password_hash, createdat, updatedat)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, usersDomain.ErrUserExists
		}
		return 0, storeErr(err, "failed to create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeErr(err, "failed to get user id")
	}

	return id, nil
}

// GetByID retrieves a user by its id.
func (m *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*usersDomain.User, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE id = ?`
	return scanMySQLUser(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by its unique username.
func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*usersDomain.User, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE username = ?`
	return scanMySQLUser(querier.QueryRowContext(ctx, query, username))
}

// List retrieves every user in stable id order.
func (m *MySQLUserRepository) List(ctx context.Context) ([]*usersDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users ORDER BY id ASC`
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list users")
	}
	defer rows.Close()

	return collectUsers(rows)
}

// DeleteByUsername deletes a user by username. Succeeds silently when absent.
func (m *MySQLUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username); err != nil {
		return storeErr(err, "failed to delete user")
	}
	return nil
}

func scanMySQLUser(row *sql.Row) (*usersDomain.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, usersDomain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
