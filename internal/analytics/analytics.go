package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DailyUsage is the query count of one weekday
type DailyUsage struct {
	Day     string
	Queries int
}

// Snapshot is one reading of the usage figures shown on the analytics screen
type Snapshot struct {
	TotalQueries       int64
	QueryGrowthPercent int

	AvgResponseTime   time.Duration
	ResponseTimeDelta time.Duration

	DocumentsIndexed int
	NewDocuments     int

	Daily []DailyUsage
}

// Source provides usage figures
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// StaticSource serves a fixed snapshot. The backend has no analytics
// endpoint, so the screen shows representative figures.
type StaticSource struct{}

func (StaticSource) Snapshot(ctx context.Context) (Snapshot, error) {
	return Snapshot{
		TotalQueries:       1234,
		QueryGrowthPercent: 12,
		AvgResponseTime:    1200 * time.Millisecond,
		ResponseTimeDelta:  -300 * time.Millisecond,
		DocumentsIndexed:   45,
		NewDocuments:       4,
		Daily: []DailyUsage{
			{Day: "Mon", Queries: 40},
			{Day: "Tue", Queries: 30},
			{Day: "Wed", Queries: 20},
			{Day: "Thu", Queries: 27},
			{Day: "Fri", Queries: 18},
			{Day: "Sat", Queries: 23},
			{Day: "Sun", Queries: 34},
		},
	}, nil
}

// StatCard is one headline figure with its trend line
type StatCard struct {
	Title string
	Value string
	Trend string
}

// Cards formats the headline figures
func (s Snapshot) Cards() []StatCard {
	return []StatCard{
		{
			Title: "Total Queries",
			Value: humanize.Comma(s.TotalQueries),
			Trend: fmt.Sprintf("%+d%% from last month", s.QueryGrowthPercent),
		},
		{
			Title: "Avg Response Time",
			Value: fmt.Sprintf("%.1fs", s.AvgResponseTime.Seconds()),
			Trend: fmt.Sprintf("%+.1fs from last month", s.ResponseTimeDelta.Seconds()),
		},
		{
			Title: "Documents Indexed",
			Value: humanize.Comma(int64(s.DocumentsIndexed)),
			Trend: fmt.Sprintf("%+d new documents", s.NewDocuments),
		},
	}
}

// Chart draws daily usage as vertical bars of the given height, with the
// y-axis scale on the left and day names underneath.
func Chart(daily []DailyUsage, height int) string {
	if len(daily) == 0 || height < 1 {
		return ""
	}

	peak := 0
	for _, d := range daily {
		if d.Queries > peak {
			peak = d.Queries
		}
	}
	if peak == 0 {
		peak = 1
	}

	const colWidth = 5
	axisWidth := len(fmt.Sprint(peak))

	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = fmt.Sprint(peak)
		}
		b.WriteString(fmt.Sprintf("%*s │", axisWidth, label))

		for _, d := range daily {
			// Bar height rounds to the nearest row
			bar := (d.Queries*height + peak/2) / peak
			cell := strings.Repeat(" ", colWidth)
			if bar >= row {
				cell = " ███ "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%*s └%s\n", axisWidth, "0", strings.Repeat("─", colWidth*len(daily))))
	b.WriteString(strings.Repeat(" ", axisWidth+2))
	for _, d := range daily {
		b.WriteString(fmt.Sprintf(" %-*s", colWidth-1, d.Day))
	}

	return strings.TrimRight(b.String(), " ")
}
