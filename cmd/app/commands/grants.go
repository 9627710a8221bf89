package commands

import (
	"context"
	"fmt"
	"log/slog"

	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
)

// RunEnroll adds a client to a group. The operation is idempotent: enrolling
// an already enrolled client succeeds without change.
func RunEnroll(
	ctx context.Context,
	useCase aclUseCase.AclUseCase,
	logger *slog.Logger,
	io IOTuple,
	clientName, groupName string,
) error {
	if err := useCase.Enroll(ctx, clientName, groupName); err != nil {
		return fmt.Errorf("failed to enroll client: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Client %q enrolled in group %q\n", clientName, groupName)

	logger.Info("client enrolled",
		slog.String("client", clientName),
		slog.String("group", groupName),
	)

	return nil
}

// RunAllow grants a group read access to a secret. The operation is
// idempotent.
func RunAllow(
	ctx context.Context,
	useCase aclUseCase.AclUseCase,
	logger *slog.Logger,
	io IOTuple,
	groupName, secretName string,
) error {
	if err := useCase.Allow(ctx, groupName, secretName); err != nil {
		return fmt.Errorf("failed to grant access: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Group %q granted access to secret %q\n", groupName, secretName)

	logger.Info("access granted",
		slog.String("group", groupName),
		slog.String("secret", secretName),
	)

	return nil
}
