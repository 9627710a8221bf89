// Package usecase implements the access-control business logic: client and
// group management plus the engine that answers whether a client may read a
// secret.
package usecase

import (
	"context"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *aclDomain.Client) (int64, error)
	GetByID(ctx context.Context, id int64) (*aclDomain.Client, error)
	GetByName(ctx context.Context, name string) (*aclDomain.Client, error)
	List(ctx context.Context) ([]*aclDomain.Client, error)
	DeleteByName(ctx context.Context, name string) error
}

// GroupRepository defines the persistence operations for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *aclDomain.Group) (int64, error)
	GetByID(ctx context.Context, id int64) (*aclDomain.Group, error)
	GetByName(ctx context.Context, name string) (*aclDomain.Group, error)
	List(ctx context.Context) ([]*aclDomain.Group, error)
	DeleteByName(ctx context.Context, name string) error
}

// MembershipRepository defines the persistence operations for the bipartite
// access edges.
type MembershipRepository interface {
	Enroll(ctx context.Context, clientID, groupID int64) error
	Evict(ctx context.Context, clientID, groupID int64) error
	Allow(ctx context.Context, groupID, seriesID int64) error
	Disallow(ctx context.Context, groupID, seriesID int64) error
	GroupsForClient(ctx context.Context, clientID int64) ([]*aclDomain.Group, error)
	ClientsForGroup(ctx context.Context, groupID int64) ([]*aclDomain.Client, error)
	SeriesForGroup(ctx context.Context, groupID int64) ([]*secretsDomain.SecretSeries, error)
	GroupsForSeries(ctx context.Context, seriesID int64) ([]*aclDomain.Group, error)
	SeriesForClient(ctx context.Context, clientID int64) ([]*secretsDomain.SecretSeries, error)
	ClientsForSeries(ctx context.Context, seriesID int64) ([]*aclDomain.Client, error)
	MayAccess(ctx context.Context, clientID, seriesID int64) (bool, error)
}

// SeriesReader resolves secret series for the access engine.
type SeriesReader interface {
	GetByName(ctx context.Context, name string) (*secretsDomain.SecretSeries, error)
}

// ContentReader resolves content revisions for the access engine.
type ContentReader interface {
	LatestBySeries(ctx context.Context, seriesID int64) (*secretsDomain.SecretContent, error)
}

// CreateClientInput carries the parameters of a client create.
type CreateClientInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	Automation  bool   `json:"automation"`
}

// CreateGroupInput carries the parameters of a group create.
type CreateGroupInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Creator     string            `json:"creator"`
	Metadata    map[string]string `json:"metadata"`
}

// ClientUseCase defines the business operations on clients.
type ClientUseCase interface {
	Create(ctx context.Context, input CreateClientInput) (*aclDomain.Client, error)
	Get(ctx context.Context, name string) (*aclDomain.Client, error)
	List(ctx context.Context) ([]*aclDomain.Client, error)
	Delete(ctx context.Context, name string) error
}

// GroupUseCase defines the business operations on groups.
type GroupUseCase interface {
	Create(ctx context.Context, input CreateGroupInput) (*aclDomain.Group, error)
	Get(ctx context.Context, name string) (*aclDomain.Group, error)
	List(ctx context.Context) ([]*aclDomain.Group, error)
	Delete(ctx context.Context, name string) error
}

// AclUseCase is the access engine. All secret reads made on behalf of a
// client go through it; a missing grant is indistinguishable from a missing
// secret on the outside.
type AclUseCase interface {
	// Enroll adds the named client to the named group. Idempotent.
	Enroll(ctx context.Context, clientName, groupName string) error

	// Evict removes the named client from the named group. Idempotent.
	Evict(ctx context.Context, clientName, groupName string) error

	// Allow grants the named group access to the named secret. Idempotent.
	Allow(ctx context.Context, groupName, secretName string) error

	// Disallow revokes the named group's access to the named secret. Idempotent.
	Disallow(ctx context.Context, groupName, secretName string) error

	// MayAccess reports whether the named client can read the named secret.
	MayAccess(ctx context.Context, clientName, secretName string) (bool, error)

	// GetSecretForClient returns the newest revision of the named secret,
	// enforcing access. A denied read reports the secret as not found.
	GetSecretForClient(ctx context.Context, clientName, secretName string) (*secretsDomain.Secret, error)

	// SecretsForClient lists sanitized projections of every secret the
	// client can read.
	SecretsForClient(ctx context.Context, clientName string) ([]secretsDomain.SanitizedSecret, error)

	// GroupsForClient lists the groups the named client is enrolled in.
	GroupsForClient(ctx context.Context, clientName string) ([]*aclDomain.Group, error)

	// ClientsForGroup lists the clients enrolled in the named group.
	ClientsForGroup(ctx context.Context, groupName string) ([]*aclDomain.Client, error)

	// SecretsForGroup lists sanitized projections of the secrets granted to
	// the named group.
	SecretsForGroup(ctx context.Context, groupName string) ([]secretsDomain.SanitizedSecret, error)

	// GroupsForSecret lists the groups holding a grant on the named secret.
	GroupsForSecret(ctx context.Context, secretName string) ([]*aclDomain.Group, error)

	// ClientsForSecret lists every client able to read the named secret.
	ClientsForSecret(ctx context.Context, secretName string) ([]*aclDomain.Client, error)
}
