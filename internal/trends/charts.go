package trends

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
)

// RenderRankingTrends plots the rank-over-time lines of the topN most
// consistent films. Rank position is plotted as-is: lower means more
// popular.
func RenderRankingTrends(h *History, topN int, path string) error {
	if len(h.Dates) < 2 {
		return fmt.Errorf("need at least 2 snapshots to plot trends, have %d", len(h.Dates))
	}

	var series []chart.Series
	for _, title := range h.ConsistentFilms(topN) {
		dates, ranks := h.SeriesFor(title)
		if len(dates) < 2 {
			continue
		}
		series = append(series, chart.TimeSeries{Name: title, XValues: dates, YValues: ranks})
	}
	if len(series) == 0 {
		return fmt.Errorf("no film appears in more than one snapshot")
	}

	graph := chart.Chart{
		Title:  "Ranking position over time (lower = more popular)",
		Width:  1400,
		Height: 800,
		XAxis:  chart.XAxis{Name: "Date"},
		YAxis:  chart.YAxis{Name: "Ranking position"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	return renderPNG(&graph, path)
}

// RenderEntriesExits plots how many films entered and left the ranking at
// each snapshot.
func RenderEntriesExits(h *History, path string) error {
	dates, entries, exits := h.EntriesExits()
	if len(dates) < 2 {
		return fmt.Errorf("need at least 2 snapshots to plot entries/exits, have %d", len(dates))
	}

	entriesY := make([]float64, len(entries))
	exitsY := make([]float64, len(exits))
	for i := range dates {
		entriesY[i] = float64(entries[i])
		exitsY[i] = float64(exits[i])
	}

	graph := chart.Chart{
		Title:  "Films entering and exiting the ranking",
		Width:  1400,
		Height: 600,
		XAxis:  chart.XAxis{Name: "Date"},
		YAxis:  chart.YAxis{Name: "Films"},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Entries", XValues: dates, YValues: entriesY},
			chart.TimeSeries{Name: "Exits", XValues: dates, YValues: exitsY},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	return renderPNG(&graph, path)
}

// RenderGenreShare plots the percentage of each snapshot held by the topN
// genres.
func RenderGenreShare(h *History, topN int, path string) error {
	if len(h.Dates) < 2 {
		return fmt.Errorf("need at least 2 snapshots to plot genre share, have %d", len(h.Dates))
	}

	genres, share := h.GenreShare(topN)
	if len(genres) == 0 {
		return fmt.Errorf("no genres in the dataset")
	}

	var series []chart.Series
	for _, g := range genres {
		series = append(series, chart.TimeSeries{Name: g, XValues: h.Dates, YValues: share[g]})
	}

	graph := chart.Chart{
		Title:  "Genre share of the ranking over time",
		Width:  1400,
		Height: 800,
		XAxis:  chart.XAxis{Name: "Date"},
		YAxis:  chart.YAxis{Name: "% of ranked films"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	return renderPNG(&graph, path)
}

// RenderRatingVsRank scatters average rating against rank position for
// the latest snapshot.
func RenderRatingVsRank(h *History, path string) error {
	latest := h.Snapshot(h.LatestDate())

	var xs, ys []float64
	for _, r := range latest {
		if r.RatingValue == nil {
			continue
		}
		xs = append(xs, *r.RatingValue)
		ys = append(ys, float64(r.Order))
	}
	if len(xs) < 2 {
		return fmt.Errorf("latest snapshot has %d rated films, need at least 2", len(xs))
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Rating vs rank position (%s)", h.LatestDate().Format("2006-01-02")),
		Width:  1000,
		Height: 700,
		XAxis:  chart.XAxis{Name: "Average rating"},
		YAxis:  chart.YAxis{Name: "Ranking position"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Films",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
				},
			},
		},
	}

	return renderPNG(&graph, path)
}

func renderPNG(graph *chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
