// Package domain defines the operator user entity. Operators are humans
// managing secrets and grants through the admin surface, as opposed to the
// mTLS clients that fetch secrets.
package domain

import (
	"time"

	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// User is an operator account authenticated with a username and password.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user not found")

	// ErrUserExists indicates a user with the same username already exists.
	ErrUserExists = apperrors.Wrap(apperrors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")
)
