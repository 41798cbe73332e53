package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
	"github.com/guiatnn/portal/internal/core/service"
	"github.com/guiatnn/portal/internal/infrastructure/config"
	mongodb "github.com/guiatnn/portal/internal/infrastructure/db/mongo"
	"github.com/guiatnn/portal/internal/security/token"
)

// cliActor is recorded as the creator of accounts made from the command line.
var cliActor = token.Identity{ID: "cli", Name: "cli", Role: domain.RoleAdmin}

func adminCmd() *cli.Command {
	var in ports.CreateAdminInput
	var force bool
	return &cli.Command{
		Name:  "admin",
		Usage: "Manage administrator accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an administrator (the first one unless --force)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Destination: &in.Email},
					&cli.StringFlag{Name: "name", Required: true, Destination: &in.Name},
					&cli.StringFlag{
						Name:        "password",
						Usage:       "Initial password (8 to 72 characters)",
						EnvVars:     []string{"ADMIN_PASSWORD"},
						Required:    true,
						Destination: &in.Password,
					},
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "Create the account even when administrators already exist",
						Destination: &force,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.Context)
					if err != nil {
						return err
					}
					return createAdmin(c.Context, cfg, in, force)
				},
			},
		},
	}
}

func createAdmin(ctx context.Context, cfg *config.Config, in ports.CreateAdminInput, force bool) error {
	log := newLogger(cfg)

	if n := len(in.Password); n < 8 || n > 72 {
		return errors.New("password must be between 8 and 72 characters")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	repo := mongodb.NewAdminRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}
	admins := service.NewAdminService(repo, nil, log)

	admin, err := admins.Setup(ctx, in)
	if errors.Is(err, domain.ErrSetupCompleted) && force {
		admin, err = admins.Create(ctx, cliActor, in)
	}
	if errors.Is(err, domain.ErrSetupCompleted) {
		return errors.New("administrators already exist; pass --force to add another")
	}
	if err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}

	log.Info().Str("admin_id", admin.ID).Str("email", admin.Email).Msg("administrator created")
	return nil
}
