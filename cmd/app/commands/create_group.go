package commands

import (
	"context"
	"fmt"
	"log/slog"

	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
)

// RunCreateGroup registers a new group. Groups are the pivot of the access
// model: enroll clients into them and grant secrets to them.
//
// Requirements: Database must be migrated and accessible.
func RunCreateGroup(
	ctx context.Context,
	groupUseCase aclUseCase.GroupUseCase,
	logger *slog.Logger,
	io IOTuple,
	name, description string,
) error {
	logger.Info("creating new group", slog.String("name", name))

	group, err := groupUseCase.Create(ctx, aclUseCase.CreateGroupInput{
		Name:        name,
		Description: description,
		Creator:     "cli",
	})
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "\nGroup created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "ID: %d\n", group.ID)
	_, _ = fmt.Fprintf(io.Writer, "Name: %s\n", group.Name)

	logger.Info("group created successfully",
		slog.Int64("group_id", group.ID),
		slog.String("name", name),
	)

	return nil
}
