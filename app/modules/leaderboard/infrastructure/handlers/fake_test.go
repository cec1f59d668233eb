package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/application"
)

// ------------------------
// Fake Leaderboard Service
// ------------------------

type FakeLeaderboardService struct {
	trace []string

	RecordEntryFunc    func(ctx context.Context, name string) (leaderboardservice.RecordOutcome, error)
	GetLeaderboardFunc func(ctx context.Context) ([]leaderboardservice.Row, error)
	UpdateEntryFunc    func(ctx context.Context, filter leaderboardservice.EntryFilter, update leaderboardservice.EntryUpdate) error
	ExportWorkbookFunc func(ctx context.Context) ([]byte, error)
	RenderChartFunc    func(ctx context.Context) ([]byte, error)
}

func NewFakeLeaderboardService() *FakeLeaderboardService {
	return &FakeLeaderboardService{trace: []string{}}
}

func (f *FakeLeaderboardService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardService) RecordEntry(ctx context.Context, name string) (leaderboardservice.RecordOutcome, error) {
	f.record("RecordEntry")
	if f.RecordEntryFunc != nil {
		return f.RecordEntryFunc(ctx, name)
	}
	return leaderboardservice.RecordOutcome{Name: name, Created: true}, nil
}

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context) ([]leaderboardservice.Row, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx)
	}
	return []leaderboardservice.Row{}, nil
}

func (f *FakeLeaderboardService) UpdateEntry(ctx context.Context, filter leaderboardservice.EntryFilter, update leaderboardservice.EntryUpdate) error {
	f.record("UpdateEntry")
	if f.UpdateEntryFunc != nil {
		return f.UpdateEntryFunc(ctx, filter, update)
	}
	return nil
}

func (f *FakeLeaderboardService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	f.record("ExportWorkbook")
	if f.ExportWorkbookFunc != nil {
		return f.ExportWorkbookFunc(ctx)
	}
	return []byte("xlsx"), nil
}

func (f *FakeLeaderboardService) RenderChart(ctx context.Context) ([]byte, error) {
	f.record("RenderChart")
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx)
	}
	return []byte("png"), nil
}

var _ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
