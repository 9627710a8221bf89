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

func TestRunCreateGroup(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	store := aclRepository.NewMemoryAclStore()
	useCase := aclUseCase.NewGroupUseCase(aclRepository.NewMemoryGroupRepository(store))

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunCreateGroup(ctx, useCase, logger, io, "payments-team", "payments service owners")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Name: payments-team")
	})

	t.Run("missing-name", func(t *testing.T) {
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunCreateGroup(ctx, useCase, logger, io, "", "")
		require.Error(t, err)
	})
}
