package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keywhiz/cmd/app/commands"
	"github.com/allisson/keywhiz/internal/app"
	"github.com/allisson/keywhiz/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "create-content-key",
			Usage: "Generate a new root content key for envelope encryption",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Content key id (at most 16 printable ASCII characters)",
				},
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "KMS key URI to wrap the key with (e.g., hashivault://key-name)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateContentKey(
					ctx,
					cmd.String("id"),
					cmd.String("kms-key-uri"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
