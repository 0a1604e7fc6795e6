// Package stats builds usage reports from the statistics store.
package stats

import (
	"context"
	"strconv"
	"time"

	"github.com/mkruglikov/decalc/internal/store"
)

// Report summarizes recorded calculator usage.
type Report struct {
	Operations []store.OperationStat
	Total      int64
}

// BuildReport aggregates the statistics store into a report.
func BuildReport(ctx context.Context, st *store.Store) (Report, error) {
	stats, err := st.ListOperationStats(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Operations: stats}
	for _, stat := range stats {
		report.Total += stat.Count
	}
	return report, nil
}

// RenderTable formats the report as aligned text lines, truncated to width
// when width is positive.
func RenderTable(report Report, width int) []string {
	if len(report.Operations) == 0 {
		return []string{"No calculations recorded yet"}
	}
	headers := []string{"OPERATION", "COUNT", "LAST USED"}
	rows := make([][]string, 0, len(report.Operations))
	for _, stat := range report.Operations {
		rows = append(rows, []string{
			stat.Operation,
			strconv.FormatInt(stat.Count, 10),
			stat.LastUsed.Local().Format(time.DateTime),
		})
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true})
	lines = append(lines, "", "Total calculations: "+strconv.FormatInt(report.Total, 10))
	return ClampLines(lines, width)
}
