package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	leaderboardmigrations "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/printboard/config"
	"github.com/Black-And-White-Club/printboard/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "printboard database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "Path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withMigrator(c *cli.Context, fn func(ctx context.Context, migrator *migrate.Migrator) error) error {
	dbCfg, err := config.LoadDatabaseConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := bundb.Open(c.Context, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(c.Context, migrate.NewMigrator(db, leaderboardmigrations.Migrations))
}

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, migrator *migrate.Migrator) error {
						fmt.Println("Initializing migrations")
						return migrator.Init(ctx)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, migrator *migrate.Migrator) error {
						if err := migrator.Lock(ctx); err != nil {
							return err
						}
						defer migrator.Unlock(ctx) //nolint:errcheck

						group, err := migrator.Migrate(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No new migrations to run")
						} else {
							fmt.Printf("Migrated to %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, migrator *migrate.Migrator) error {
						if err := migrator.Lock(ctx); err != nil {
							return err
						}
						defer migrator.Unlock(ctx) //nolint:errcheck

						group, err := migrator.Rollback(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No groups to roll back")
						} else {
							fmt.Printf("Rolled back %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, migrator *migrate.Migrator) error {
						name := strings.Join(c.Args().Slice(), "_")
						mf, err := migrator.CreateGoMigration(ctx, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, migrator *migrate.Migrator) error {
						ms, err := migrator.MigrationsWithStatus(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations: %s\n", ms)
						fmt.Printf("Applied: %s\n", ms.Applied())
						fmt.Printf("Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
		},
	}
}
