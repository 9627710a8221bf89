// Package usecase implements the operator user business logic: registration,
// password login and account management.
package usecase

import (
	"context"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *usersDomain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*usersDomain.User, error)
	GetByUsername(ctx context.Context, username string) (*usersDomain.User, error)
	List(ctx context.Context) ([]*usersDomain.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

// RegisterUserInput carries the parameters of a user registration.
type RegisterUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUseCase defines the business operations on operator users.
type UserUseCase interface {
	// Register creates a new operator account with a hashed password.
	Register(ctx context.Context, input RegisterUserInput) (*usersDomain.User, error)

	// Get retrieves a user by username.
	Get(ctx context.Context, username string) (*usersDomain.User, error)

	// List retrieves every user.
	List(ctx context.Context) ([]*usersDomain.User, error)

	// Delete removes a user by username.
	Delete(ctx context.Context, username string) error

	// Login verifies a username/password pair and returns the operator
	// principal on success. Unknown usernames and bad passwords are
	// indistinguishable to the caller.
	Login(ctx context.Context, username, password string) (*aclDomain.OperatorUser, error)
}
