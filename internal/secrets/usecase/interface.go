// Package usecase implements the business logic for versioned secret storage.
// It orchestrates series and content repositories with the content
// cryptographer so that a secret create is a single atomic unit: the series
// row, the encrypted content row, or neither.
package usecase

import (
	"context"

	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// SeriesRepository defines the persistence operations for secret series.
type SeriesRepository interface {
	Create(ctx context.Context, series *secretsDomain.SecretSeries) (int64, error)
	GetByID(ctx context.Context, id int64) (*secretsDomain.SecretSeries, error)
	GetByName(ctx context.Context, name string) (*secretsDomain.SecretSeries, error)
	List(ctx context.Context) ([]*secretsDomain.SecretSeries, error)
	DeleteByName(ctx context.Context, name string) error
}

// ContentRepository defines the persistence operations for secret content revisions.
type ContentRepository interface {
	Create(ctx context.Context, content *secretsDomain.SecretContent) (int64, error)
	GetByID(ctx context.Context, id int64) (*secretsDomain.SecretContent, error)
	GetBySeriesAndVersion(ctx context.Context, seriesID int64, version string) (*secretsDomain.SecretContent, error)
	LatestBySeries(ctx context.Context, seriesID int64) (*secretsDomain.SecretContent, error)
	ListBySeries(ctx context.Context, seriesID int64) ([]*secretsDomain.SecretContent, error)
	VersionsBySeries(ctx context.Context, seriesID int64) ([]string, error)
	DeleteBySeries(ctx context.Context, seriesID int64) error
	DeleteBySeriesAndVersion(ctx context.Context, seriesID int64, version string) error
}

// CreateSecretInput carries every parameter of a secret create. The zero value
// of each optional field is meaningful: no description, no metadata, an
// unversioned revision.
type CreateSecretInput struct {
	Name              string            `json:"name"`
	Content           []byte            `json:"content"`
	Creator           string            `json:"creator"`
	Description       string            `json:"description"`
	Metadata          map[string]string `json:"metadata"`
	Type              string            `json:"type"`
	GenerationOptions map[string]string `json:"generationOptions"`

	// WithVersion requests a versioned revision. When Version is empty a fresh
	// version stamp is generated; a non-empty Version is stored as given.
	WithVersion bool   `json:"withVersion"`
	Version     string `json:"version"`
}

// SecretUseCase defines the business operations on secrets.
type SecretUseCase interface {
	// Create stores a new secret revision, creating the series on first write.
	// The series and content writes happen in one transaction: a duplicate
	// (series, version) pair rolls the whole create back.
	Create(ctx context.Context, input CreateSecretInput) (*secretsDomain.Secret, error)

	// Get retrieves the newest revision of the named secret.
	Get(ctx context.Context, name string) (*secretsDomain.Secret, error)

	// GetVersion retrieves the revision carrying the exact version token; the
	// empty version selects the unversioned revision, not the newest one.
	GetVersion(ctx context.Context, name, version string) (*secretsDomain.Secret, error)

	// GetByID retrieves the newest revision of the series with the given id.
	GetByID(ctx context.Context, seriesID int64) (*secretsDomain.Secret, error)

	// GetVersionByID retrieves the revision of the series with the given id
	// carrying the exact version token.
	GetVersionByID(ctx context.Context, seriesID int64, version string) (*secretsDomain.Secret, error)

	// ListByID returns every revision of the series with the given id, one
	// secret per content row in insertion order.
	ListByID(ctx context.Context, seriesID int64) ([]*secretsDomain.Secret, error)

	// List returns a sanitized projection of the newest revision of every
	// series. Series with no content rows are skipped.
	List(ctx context.Context) ([]secretsDomain.SanitizedSecret, error)

	// ListAll returns a sanitized projection of every revision of every
	// series, ordered by series id then content id.
	ListAll(ctx context.Context) ([]secretsDomain.SanitizedSecret, error)

	// ListVersions returns the version tokens of the named secret in
	// insertion order, the empty token included when an unversioned
	// revision exists.
	ListVersions(ctx context.Context, name string) ([]string, error)

	// Delete removes the named series and every revision under it.
	Delete(ctx context.Context, name string) error

	// DeleteVersion removes a single revision, leaving the series and its
	// other revisions in place.
	DeleteVersion(ctx context.Context, name, version string) error
}
