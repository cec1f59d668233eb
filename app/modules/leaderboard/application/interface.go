package leaderboardservice

import "context"

// Service defines the leaderboard operations.
type Service interface {
	// RecordEntry adds name with zero score and cost, or bumps both by one
	// when it already exists, then recalculates ranks.
	RecordEntry(ctx context.Context, name string) (RecordOutcome, error)

	// GetLeaderboard returns every entry ordered by rank.
	GetLeaderboard(ctx context.Context) ([]Row, error)

	// UpdateEntry overwrites score and/or cost of the matched entry, then
	// recalculates ranks.
	UpdateEntry(ctx context.Context, filter EntryFilter, update EntryUpdate) error

	// ExportWorkbook renders the leaderboard as an XLSX workbook.
	ExportWorkbook(ctx context.Context) ([]byte, error)

	// RenderChart renders the leaderboard scores as a PNG bar chart.
	RenderChart(ctx context.Context) ([]byte, error)
}
