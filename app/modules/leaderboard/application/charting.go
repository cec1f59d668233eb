package leaderboardservice

import (
	"bytes"
	"context"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used for leaderboard charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is used by RenderChart.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Bar:        drawing.ColorFromHex("2f6f4e"),
	Text:       drawing.ColorFromHex("1f1f1f"),
}

const noDataMessage = "No data available"

// RenderChart renders the current leaderboard as a PNG bar chart.
func (s *LeaderboardService) RenderChart(ctx context.Context) ([]byte, error) {
	rows, err := s.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return withTelemetry(s, ctx, "RenderChart", "", func(ctx context.Context) ([]byte, error) {
		return GenerateScoreChart(rows, DefaultPalette)
	})
}

// GenerateScoreChart produces a PNG bar chart of scores in rank order. An
// empty or all-zero board renders a placeholder image.
func GenerateScoreChart(rows []Row, palette ChartPalette) ([]byte, error) {
	if !hasScores(rows) {
		return renderNoDataPlaceholder(palette)
	}

	lo, hi := 0.0, 0.0
	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		v := float64(row.Score)
		lo, hi = min(lo, v), max(hi, v)
		bars = append(bars, chart.Value{
			Label: row.Name,
			Value: v,
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		})
	}

	graph := chart.BarChart{
		Title:  "Leaderboard",
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{FontColor: palette.Text},
		XAxis:      chart.Style{FontColor: palette.Text},
		YAxis: chart.YAxis{
			Name:  "Score",
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		BarWidth: 40,
		Bars:     bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func hasScores(rows []Row) bool {
	for _, row := range rows {
		if row.Score != 0 {
			return true
		}
	}
	return false
}

// renderNoDataPlaceholder draws the message straight onto a PNG canvas.
// chart.Chart refuses to render without at least one series.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const width, height = 400, 200

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(12.0)
	tb := r.MeasureText(noDataMessage)
	r.Text(noDataMessage, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
