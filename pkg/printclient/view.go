package printclient

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"
)

// NoDataPlaceholder is rendered in place of rows for an empty leaderboard.
const NoDataPlaceholder = "No data available"

// RenderLeaderboard writes rows as an aligned table with a Rank, Name, Score
// and Cost header. Rows are written in the order given. Control characters in
// names are escaped so every row stays on one line.
func RenderLeaderboard(w io.Writer, rows []LeaderboardRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Rank\tName\tScore\tCost")
	if len(rows) == 0 {
		fmt.Fprintln(tw, NoDataPlaceholder)
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", row.Rank, escapeCell(row.Name), row.Score, row.Cost)
	}
	return tw.Flush()
}

func escapeCell(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}
