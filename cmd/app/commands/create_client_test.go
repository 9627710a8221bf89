package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	aclRepository "github.com/allisson/keywhiz/internal/acl/repository"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
)

func newTestClientUseCase() aclUseCase.ClientUseCase {
	store := aclRepository.NewMemoryAclStore()
	return aclUseCase.NewClientUseCase(aclRepository.NewMemoryClientRepository(store))
}

func TestRunCreateClient(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		useCase := newTestClientUseCase()
		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunCreateClient(ctx, useCase, logger, io, "deploy-bot", "deployment agent", true, "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Name: deploy-bot")
		require.Contains(t, out.String(), "Automation: true")
	})

	t.Run("json-output", func(t *testing.T) {
		useCase := newTestClientUseCase()
		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunCreateClient(ctx, useCase, logger, io, "deploy-bot", "", false, "json")
		require.NoError(t, err)
		require.Contains(t, out.String(), `"name": "deploy-bot"`)
		require.Contains(t, out.String(), `"automation": false`)
	})

	t.Run("duplicate-name", func(t *testing.T) {
		useCase := newTestClientUseCase()
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunCreateClient(ctx, useCase, logger, io, "deploy-bot", "", false, "text")
		require.NoError(t, err)

		err = RunCreateClient(ctx, useCase, logger, io, "deploy-bot", "", false, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create client")
	})

	t.Run("missing-name", func(t *testing.T) {
		useCase := newTestClientUseCase()
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunCreateClient(ctx, useCase, logger, io, "", "", false, "text")
		require.Error(t, err)
	})
}
