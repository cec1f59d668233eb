package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*leaderboarddb.Entry)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create leaderboard_entries table: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*leaderboarddb.Entry)(nil)).
				Index("idx_leaderboard_entries_ranking").
				IfNotExists().
				Column("score", "created_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create ranking index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard_entries table...")

		if _, err := db.NewDropTable().
			Model((*leaderboarddb.Entry)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop leaderboard_entries table: %w", err)
		}
		return nil
	})
}
