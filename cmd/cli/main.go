package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/schoolconnect/internal/buildinfo"
	"github.com/dmitrijs2005/schoolconnect/internal/client/cli"
	"github.com/dmitrijs2005/schoolconnect/internal/client/client"
	"github.com/dmitrijs2005/schoolconnect/internal/client/config"
	"github.com/dmitrijs2005/schoolconnect/internal/client/credstore"
	"github.com/dmitrijs2005/schoolconnect/internal/client/guard"
	"github.com/dmitrijs2005/schoolconnect/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schoolconnect/internal/client/services"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
	"github.com/dmitrijs2005/schoolconnect/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	ctx := context.Background()

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	shutdown := telemetry.Setup(ctx, cfg.ServiceName, log)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn(ctx, "telemetry shutdown failed", "error", err)
		}
	}()

	db, err := credstore.InitDatabase(ctx, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	store := credstore.New(metadata.NewSQLiteRepository(db), log)

	apiClient, err := client.NewHTTPClient(cfg.ServerURL, store, log, client.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return err
	}
	defer apiClient.Close()

	session := services.NewSession(apiClient, store, log)
	admin := services.NewAdminService(apiClient, session, log)
	g := guard.New(session,
		guard.WithLogger(log),
		guard.WithTransitionHook(func(ctx context.Context, t guard.Transition) {
			log.Info(ctx, "screen changed", "from", t.From.String(), "to", t.To.String())
		}),
	)

	app := cli.NewApp(session, admin, g, log, os.Stdin, os.Stdout)
	return app.Run(ctx)
}
