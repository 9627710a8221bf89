package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	aclRepository "github.com/allisson/keywhiz/internal/acl/repository"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
	secretsRepository "github.com/allisson/keywhiz/internal/secrets/repository"
)

func newTestAclStack(t *testing.T) aclUseCase.AclUseCase {
	t.Helper()
	ctx := context.Background()

	aclStore := aclRepository.NewMemoryAclStore()
	secretStore := secretsRepository.NewMemorySecretStore()
	clientRepo := aclRepository.NewMemoryClientRepository(aclStore)
	groupRepo := aclRepository.NewMemoryGroupRepository(aclStore)
	seriesRepo := secretsRepository.NewMemorySeriesRepository(secretStore)
	contentRepo := secretsRepository.NewMemoryContentRepository(secretStore)
	membershipRepo := aclRepository.NewMemoryMembershipRepository(aclStore, seriesRepo)

	clientUC := aclUseCase.NewClientUseCase(clientRepo)
	groupUC := aclUseCase.NewGroupUseCase(groupRepo)

	_, err := clientUC.Create(ctx, aclUseCase.CreateClientInput{Name: "deploy-bot", Creator: "test"})
	require.NoError(t, err)
	_, err = groupUC.Create(ctx, aclUseCase.CreateGroupInput{Name: "payments-team", Creator: "test"})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = seriesRepo.Create(ctx, &secretsDomain.SecretSeries{
		Name:      "DB_Pass",
		CreatedAt: now,
		CreatedBy: "test",
		UpdatedAt: now,
		UpdatedBy: "test",
	})
	require.NoError(t, err)

	return aclUseCase.NewAclUseCase(clientRepo, groupRepo, membershipRepo, seriesRepo, contentRepo, nil)
}

func TestRunEnroll(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	useCase := newTestAclStack(t)

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunEnroll(ctx, useCase, logger, io, "deploy-bot", "payments-team")
		require.NoError(t, err)
		require.Contains(t, out.String(), `enrolled in group "payments-team"`)
	})

	t.Run("idempotent", func(t *testing.T) {
		io := IOTuple{Writer: &bytes.Buffer{}}

		require.NoError(t, RunEnroll(ctx, useCase, logger, io, "deploy-bot", "payments-team"))
		require.NoError(t, RunEnroll(ctx, useCase, logger, io, "deploy-bot", "payments-team"))
	})

	t.Run("unknown-client", func(t *testing.T) {
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunEnroll(ctx, useCase, logger, io, "ghost", "payments-team")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to enroll client")
	})
}

func TestRunAllow(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	useCase := newTestAclStack(t)

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunAllow(ctx, useCase, logger, io, "payments-team", "DB_Pass")
		require.NoError(t, err)
		require.Contains(t, out.String(), `granted access to secret "DB_Pass"`)
	})

	t.Run("unknown-secret", func(t *testing.T) {
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunAllow(ctx, useCase, logger, io, "payments-team", "ghost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to grant access")
	})
}
