package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keywhiz/cmd/app/commands"
	"github.com/allisson/keywhiz/internal/app"
	"github.com/allisson/keywhiz/internal/config"
)

func getAclCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-client",
			Usage: "Register a new mTLS client",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Client name, matching the certificate common name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Free-form client description",
				},
				&cli.BoolFlag{
					Name:    "automation",
					Aliases: []string{"a"},
					Value:   false,
					Usage:   "Allow the client to drive the automation management API",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("name"),
					cmd.String("description"),
					cmd.Bool("automation"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-group",
			Usage: "Register a new group",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Group name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Free-form group description",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				groupUseCase, err := container.GroupUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateGroup(
					ctx,
					groupUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("name"),
					cmd.String("description"),
				)
			},
		},
		{
			Name:  "enroll",
			Usage: "Add a client to a group",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "client",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Client name",
				},
				&cli.StringFlag{
					Name:     "group",
					Aliases:  []string{"g"},
					Required: true,
					Usage:    "Group name",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				aclUseCase, err := container.AclUseCase()
				if err != nil {
					return err
				}

				return commands.RunEnroll(
					ctx,
					aclUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("client"),
					cmd.String("group"),
				)
			},
		},
		{
			Name:  "allow",
			Usage: "Grant a group read access to a secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "group",
					Aliases:  []string{"g"},
					Required: true,
					Usage:    "Group name",
				},
				&cli.StringFlag{
					Name:     "secret",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Secret name",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				aclUseCase, err := container.AclUseCase()
				if err != nil {
					return err
				}

				return commands.RunAllow(
					ctx,
					aclUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("group"),
					cmd.String("secret"),
				)
			},
		},
	}
}
