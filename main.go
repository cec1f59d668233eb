package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/printboard/app"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/config"
	"github.com/urfave/cli/v2"
)

const serviceName = "printboard"

func main() {
	cliApp := &cli.App{
		Name:  serviceName,
		Usage: "leaderboard and print job server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "Path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.BoolFlag{
				Name:    "migrate",
				Usage:   "Apply pending migrations before serving",
				EnvVars: []string{"DB_AUTO_MIGRATE"},
			},
		},
		Action: serve,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Bool("migrate") {
		cfg.Postgres.AutoMigrate = true
	}

	obs, err := observability.Init(ctx, cfg.Observability, serviceName, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		_ = obs.Shutdown(context.Background())
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	return application.Start(ctx)
}
