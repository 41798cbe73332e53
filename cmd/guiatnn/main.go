package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/guiatnn/portal/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "guiatnn",
		Usage: "Guía TNN portal API and admin panel",
		Commands: []*cli.Command{
			serveCmd(),
			adminCmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		// Commands initialise the logger from config; this default only
		// applies when they failed before doing so.
		log := logger.Init(logger.Options{Service: "guiatnn"})
		log.Error().Err(err).Msg("application failed")
		os.Exit(1)
	}
}
