package domain

import (
	"github.com/allisson/keywhiz/internal/errors"
)

// Access-control error definitions.
var (
	// ErrClientNotFound indicates no client exists for the requested name or id.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrGroupNotFound indicates no group exists for the requested name or id.
	ErrGroupNotFound = errors.Wrap(errors.ErrNotFound, "group not found")

	// ErrClientExists indicates a client with the same name already exists.
	ErrClientExists = errors.Wrap(errors.ErrConflict, "client already exists")

	// ErrGroupExists indicates a group with the same name already exists.
	ErrGroupExists = errors.Wrap(errors.ErrConflict, "group already exists")

	// ErrAccessDenied indicates the client holds no group-mediated access to
	// the secret. External surfaces translate it to NotFound so callers
	// cannot probe which secrets exist.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "access denied")
)
