package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	usersUseCase "github.com/allisson/keywhiz/internal/users/usecase"
)

// RunCreateUser registers a new operator account for the admin API. When the
// password argument is empty the command prompts for it interactively.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase usersUseCase.UserUseCase,
	logger *slog.Logger,
	io IOTuple,
	username, email, password string,
) error {
	logger.Info("creating new user", slog.String("username", username))

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	user, err := userUseCase.Register(ctx, usersUseCase.RegisterUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "ID: %d\n", user.ID)
	_, _ = fmt.Fprintf(io.Writer, "Username: %s\n", user.Username)

	logger.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("username", username),
	)

	return nil
}

// promptForPassword reads the password from the interactive reader.
func promptForPassword(io IOTuple) (string, error) {
	_, _ = fmt.Fprint(io.Writer, "Enter password: ")

	reader := bufio.NewReader(io.Reader)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}
