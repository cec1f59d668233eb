package leaderboarddb

import (
	"time"

	"github.com/uptrace/bun"
)

// Entry is one participant on the leaderboard.
type Entry struct {
	bun.BaseModel `bun:"table:leaderboard_entries,alias:le"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull,unique"`
	Score     int       `bun:"score,notnull,default:0"`
	Cost      int       `bun:"cost,notnull,default:0"`
	Rank      int       `bun:"rank,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
