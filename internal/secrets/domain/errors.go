package domain

import (
	"github.com/allisson/keywhiz/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret exists for the requested name or id.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSeriesNotFound indicates the secret series does not exist.
	ErrSeriesNotFound = errors.Wrap(errors.ErrNotFound, "secret series not found")

	// ErrContentNotFound indicates no content revision matches the requested version.
	ErrContentNotFound = errors.Wrap(errors.ErrNotFound, "secret content not found")

	// ErrSeriesExists indicates a series with the same name already exists.
	ErrSeriesExists = errors.Wrap(errors.ErrConflict, "secret series already exists")

	// ErrSecretExists indicates a revision with the same (series, version) pair already exists.
	ErrSecretExists = errors.Wrap(errors.ErrConflict, "secret already exists")
)
