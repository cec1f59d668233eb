package leaderboardservice

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the name of the worksheet holding the leaderboard.
const ExportSheet = "Leaderboard"

var exportHeader = []any{"Rank", "Name", "Score", "Cost"}

// ExportWorkbook renders the current leaderboard as an XLSX workbook.
func (s *LeaderboardService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	rows, err := s.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return withTelemetry(s, ctx, "ExportWorkbook", "", func(ctx context.Context) ([]byte, error) {
		return BuildWorkbook(rows)
	})
}

// BuildWorkbook writes rows below a Rank/Name/Score/Cost header.
func BuildWorkbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ExportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(ExportSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(ExportSheet, "B", "B", 24); err != nil {
		return nil, fmt.Errorf("failed to size name column: %w", err)
	}

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		cells := []any{row.Rank, row.Name, row.Score, row.Cost}
		if err := f.SetSheetRow(ExportSheet, axis, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
