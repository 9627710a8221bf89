package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aclRepository "github.com/allisson/keywhiz/internal/acl/repository"
	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
	cryptoService "github.com/allisson/keywhiz/internal/crypto/service"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
	secretsRepository "github.com/allisson/keywhiz/internal/secrets/repository"
	secretsUseCase "github.com/allisson/keywhiz/internal/secrets/usecase"
)

// passTxManager runs the function without a real transaction.
type passTxManager struct{}

func (passTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type aclTestEnv struct {
	clients ClientUseCase
	groups  GroupUseCase
	acl     AclUseCase
	secrets secretsUseCase.SecretUseCase
}

func newAclTestEnv(t *testing.T) *aclTestEnv {
	t.Helper()

	key := bytes.Repeat([]byte{0x42}, 32)
	chain, err := cryptoDomain.NewContentKeyChain("key-1", []*cryptoDomain.ContentKey{
		{ID: "key-1", Key: key},
	})
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	cryptographer := cryptoService.NewCryptographer(chain)

	secretStore := secretsRepository.NewMemorySecretStore()
	seriesRepo := secretsRepository.NewMemorySeriesRepository(secretStore)
	contentRepo := secretsRepository.NewMemoryContentRepository(secretStore)

	aclStore := aclRepository.NewMemoryAclStore()
	clientRepo := aclRepository.NewMemoryClientRepository(aclStore)
	groupRepo := aclRepository.NewMemoryGroupRepository(aclStore)
	membershipRepo := aclRepository.NewMemoryMembershipRepository(aclStore, seriesRepo)

	return &aclTestEnv{
		clients: NewClientUseCase(clientRepo),
		groups:  NewGroupUseCase(groupRepo),
		acl:     NewAclUseCase(clientRepo, groupRepo, membershipRepo, seriesRepo, contentRepo, cryptographer),
		secrets: secretsUseCase.NewSecretUseCase(passTxManager{}, seriesRepo, contentRepo, cryptographer),
	}
}

func (e *aclTestEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := e.clients.Create(ctx, CreateClientInput{
		Name: "deploy-bot", Creator: "admin", Automation: true,
	})
	require.NoError(t, err)

	_, err = e.groups.Create(ctx, CreateGroupInput{Name: "payments-team", Creator: "admin"})
	require.NoError(t, err)

	_, err = e.secrets.Create(ctx, secretsUseCase.CreateSecretInput{
		Name: "DB_Pass", Content: []byte("hunter2"), Creator: "admin",
	})
	require.NoError(t, err)
}

func TestAclUseCase_GrantAndRead(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	// Membership alone grants nothing.
	require.NoError(t, env.acl.Enroll(ctx, "deploy-bot", "payments-team"))
	allowed, err := env.acl.MayAccess(ctx, "deploy-bot", "DB_Pass")
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, env.acl.Allow(ctx, "payments-team", "DB_Pass"))
	allowed, err = env.acl.MayAccess(ctx, "deploy-bot", "DB_Pass")
	require.NoError(t, err)
	assert.True(t, allowed)

	secret, err := env.acl.GetSecretForClient(ctx, "deploy-bot", "DB_Pass")
	require.NoError(t, err)
	plaintext, err := secret.Plaintext()
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), plaintext)
}

func TestAclUseCase_DeniedReadsAsNotFound(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	// No edges at all: the secret exists but the client must not learn that.
	_, err := env.acl.GetSecretForClient(ctx, "deploy-bot", "DB_Pass")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	// Same answer for a name that genuinely does not exist.
	_, err = env.acl.GetSecretForClient(ctx, "deploy-bot", "No_Such_Secret")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestAclUseCase_Revocation(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	require.NoError(t, env.acl.Enroll(ctx, "deploy-bot", "payments-team"))
	require.NoError(t, env.acl.Allow(ctx, "payments-team", "DB_Pass"))

	require.NoError(t, env.acl.Disallow(ctx, "payments-team", "DB_Pass"))
	_, err := env.acl.GetSecretForClient(ctx, "deploy-bot", "DB_Pass")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	// Re-grant, then revoke via the membership edge instead.
	require.NoError(t, env.acl.Allow(ctx, "payments-team", "DB_Pass"))
	require.NoError(t, env.acl.Evict(ctx, "deploy-bot", "payments-team"))
	allowed, err := env.acl.MayAccess(ctx, "deploy-bot", "DB_Pass")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAclUseCase_EdgeOpsAreIdempotent(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	require.NoError(t, env.acl.Enroll(ctx, "deploy-bot", "payments-team"))
	require.NoError(t, env.acl.Enroll(ctx, "deploy-bot", "payments-team"))
	require.NoError(t, env.acl.Allow(ctx, "payments-team", "DB_Pass"))
	require.NoError(t, env.acl.Allow(ctx, "payments-team", "DB_Pass"))

	groups, err := env.acl.GroupsForClient(ctx, "deploy-bot")
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	require.NoError(t, env.acl.Evict(ctx, "deploy-bot", "payments-team"))
	require.NoError(t, env.acl.Evict(ctx, "deploy-bot", "payments-team"))
	require.NoError(t, env.acl.Disallow(ctx, "payments-team", "DB_Pass"))
	require.NoError(t, env.acl.Disallow(ctx, "payments-team", "DB_Pass"))
}

func TestAclUseCase_EdgeOpsRequireBothSides(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	err := env.acl.Enroll(ctx, "ghost", "payments-team")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = env.acl.Enroll(ctx, "deploy-bot", "ghost-group")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = env.acl.Allow(ctx, "payments-team", "ghost-secret")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAclUseCase_MayAccess_UnknownNames(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	allowed, err := env.acl.MayAccess(ctx, "ghost", "DB_Pass")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = env.acl.MayAccess(ctx, "deploy-bot", "ghost-secret")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAclUseCase_SanitizedListings(t *testing.T) {
	env := newAclTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	_, err := env.secrets.Create(ctx, secretsUseCase.CreateSecretInput{
		Name: "API_Key", Content: []byte("0123456789"), Creator: "admin",
	})
	require.NoError(t, err)

	require.NoError(t, env.acl.Enroll(ctx, "deploy-bot", "payments-team"))
	require.NoError(t, env.acl.Allow(ctx, "payments-team", "DB_Pass"))
	require.NoError(t, env.acl.Allow(ctx, "payments-team", "API_Key"))

	secrets, err := env.acl.SecretsForClient(ctx, "deploy-bot")
	require.NoError(t, err)
	require.Len(t, secrets, 2)
	assert.Equal(t, "DB_Pass", secrets[0].Name)
	assert.Equal(t, 7, secrets[0].Length)
	assert.Equal(t, "API_Key", secrets[1].Name)
	assert.Equal(t, 10, secrets[1].Length)

	forGroup, err := env.acl.SecretsForGroup(ctx, "payments-team")
	require.NoError(t, err)
	assert.Len(t, forGroup, 2)

	groups, err := env.acl.GroupsForSecret(ctx, "DB_Pass")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "payments-team", groups[0].Name)

	clients, err := env.acl.ClientsForSecret(ctx, "DB_Pass")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "deploy-bot", clients[0].Name)

	clients, err = env.acl.ClientsForGroup(ctx, "payments-team")
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestClientUseCase(t *testing.T) {
	env := newAclTestEnv(t)
	ctx := context.Background()

	client, err := env.clients.Create(ctx, CreateClientInput{
		Name: "deploy-bot", Creator: "admin", Automation: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, client.ID)
	assert.True(t, client.Automation)
	assert.Equal(t, "admin", client.CreatedBy)

	_, err = env.clients.Create(ctx, CreateClientInput{Name: "deploy-bot", Creator: "admin"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.clients.Create(ctx, CreateClientInput{Name: " ", Creator: "admin"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	clients, err := env.clients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	require.NoError(t, env.clients.Delete(ctx, "deploy-bot"))
	err = env.clients.Delete(ctx, "deploy-bot")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGroupUseCase(t *testing.T) {
	env := newAclTestEnv(t)
	ctx := context.Background()

	group, err := env.groups.Create(ctx, CreateGroupInput{
		Name:     "payments-team",
		Creator:  "admin",
		Metadata: map[string]string{"owner": "payments"},
	})
	require.NoError(t, err)
	assert.NotZero(t, group.ID)
	assert.Equal(t, "payments", group.Metadata["owner"])

	_, err = env.groups.Create(ctx, CreateGroupInput{
		Name:     "other",
		Creator:  "admin",
		Metadata: map[string]string{"": "v"},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	fetched, err := env.groups.Get(ctx, "payments-team")
	require.NoError(t, err)
	assert.Equal(t, group.ID, fetched.ID)

	require.NoError(t, env.groups.Delete(ctx, "payments-team"))
	_, err = env.groups.Get(ctx, "payments-team")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
