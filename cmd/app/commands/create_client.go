package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	aclUseCase "github.com/allisson/keywhiz/internal/acl/usecase"
)

// RunCreateClient registers a new mTLS client. The name must match the common
// name of the certificate the client will present. Outputs the created client
// in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientUseCase aclUseCase.ClientUseCase,
	logger *slog.Logger,
	io IOTuple,
	name, description string,
	automation bool,
	format string,
) error {
	logger.Info("creating new client", slog.String("name", name))

	client, err := clientUseCase.Create(ctx, aclUseCase.CreateClientInput{
		Name:        name,
		Description: description,
		Creator:     "cli",
		Automation:  automation,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		outputClientJSON(client, io.Writer)
	} else {
		outputClientText(client, io.Writer)
	}

	logger.Info("client created successfully",
		slog.Int64("client_id", client.ID),
		slog.String("name", name),
		slog.Bool("automation", automation),
	)

	return nil
}

// outputClientText outputs the result in human-readable text format.
func outputClientText(client *aclDomain.Client, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "ID: %d\n", client.ID)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", client.Name)
	_, _ = fmt.Fprintf(writer, "Automation: %t\n", client.Automation)
	_, _ = fmt.Fprintln(writer, "\nThe client authenticates with a certificate whose CN matches the name.")
}

// outputClientJSON outputs the result in JSON format for machine consumption.
func outputClientJSON(client *aclDomain.Client, writer io.Writer) {
	result := map[string]any{
		"id":         client.ID,
		"name":       client.Name,
		"automation": client.Automation,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
