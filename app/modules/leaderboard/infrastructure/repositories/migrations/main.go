package leaderboardmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the leaderboard schema migrations.
var Migrations = migrate.NewMigrations()
