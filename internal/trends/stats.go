package trends

import (
	"sort"
	"strings"
	"time"
)

// FilmStat summarizes one film across snapshots.
type FilmStat struct {
	Title       string
	Appearances int // distinct snapshot dates
	AvgRank     float64
}

// Summary holds the dataset-level statistics printed by the trends
// command.
type Summary struct {
	Snapshots      int
	FirstDate      time.Time
	LastDate       time.Time
	UniqueFilms    int
	TotalRows      int
	MostConsistent []FilmStat // by appearances, descending
	BestAverage    []FilmStat // by average rank, ascending
	LatestTop      []string   // titles of the latest snapshot's top films
}

// Summarize computes dataset statistics. topN bounds the per-film lists.
func (h *History) Summarize(topN int) *Summary {
	s := &Summary{
		Snapshots: len(h.Dates),
		TotalRows: len(h.Records),
	}
	if len(h.Dates) == 0 {
		return s
	}
	s.FirstDate = h.Dates[0]
	s.LastDate = h.Dates[len(h.Dates)-1]

	ids := make(map[string]struct{})
	for _, r := range h.Records {
		ids[r.FilmID] = struct{}{}
	}
	s.UniqueFilms = len(ids)

	stats := h.filmStats()
	s.MostConsistent = topBy(stats, topN, func(a, b FilmStat) bool {
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		return a.Title < b.Title
	})
	s.BestAverage = topBy(stats, topN, func(a, b FilmStat) bool {
		if a.AvgRank != b.AvgRank {
			return a.AvgRank < b.AvgRank
		}
		return a.Title < b.Title
	})

	latest := append([]Record(nil), h.Snapshot(s.LastDate)...)
	sort.Slice(latest, func(i, j int) bool { return latest[i].Order < latest[j].Order })
	for i := 0; i < len(latest) && i < 5; i++ {
		s.LatestTop = append(s.LatestTop, displayTitle(latest[i]))
	}

	return s
}

// ConsistentFilms returns the titles of the n films appearing in the most
// snapshots, ties broken alphabetically.
func (h *History) ConsistentFilms(n int) []string {
	stats := topBy(h.filmStats(), n, func(a, b FilmStat) bool {
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		return a.Title < b.Title
	})
	titles := make([]string, len(stats))
	for i, st := range stats {
		titles[i] = st.Title
	}
	return titles
}

// SeriesFor returns the (date, rank) series of one film title, one point
// per snapshot it appeared in.
func (h *History) SeriesFor(title string) ([]time.Time, []float64) {
	var dates []time.Time
	var ranks []float64
	for _, date := range h.Dates {
		for _, r := range h.Snapshot(date) {
			if displayTitle(r) == title {
				dates = append(dates, date)
				ranks = append(ranks, float64(r.Order))
				break
			}
		}
	}
	return dates, ranks
}

// EntriesExits counts, per snapshot, how many films entered and left the
// ranking compared to the previous snapshot. The first snapshot has no
// baseline and counts zero both ways.
func (h *History) EntriesExits() (dates []time.Time, entries, exits []int) {
	var prev map[string]struct{}
	for _, date := range h.Dates {
		current := make(map[string]struct{})
		for _, r := range h.Snapshot(date) {
			current[r.FilmID] = struct{}{}
		}

		var in, out int
		if prev != nil {
			for id := range current {
				if _, ok := prev[id]; !ok {
					in++
				}
			}
			for id := range prev {
				if _, ok := current[id]; !ok {
					out++
				}
			}
		}

		dates = append(dates, date)
		entries = append(entries, in)
		exits = append(exits, out)
		prev = current
	}
	return dates, entries, exits
}

// GenreShare returns, for the topN genres by distinct-film count, the
// percentage of each snapshot's films carrying the genre.
func (h *History) GenreShare(topN int) (genres []string, share map[string][]float64) {
	films := make(map[string]map[string]struct{}) // genre -> film IDs
	for _, r := range h.Records {
		for _, g := range splitGenres(r.Genres) {
			if films[g] == nil {
				films[g] = make(map[string]struct{})
			}
			films[g][r.FilmID] = struct{}{}
		}
	}

	for g := range films {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if len(films[genres[i]]) != len(films[genres[j]]) {
			return len(films[genres[i]]) > len(films[genres[j]])
		}
		return genres[i] < genres[j]
	})
	if len(genres) > topN {
		genres = genres[:topN]
	}

	share = make(map[string][]float64, len(genres))
	for _, date := range h.Dates {
		snap := h.Snapshot(date)
		counts := make(map[string]int)
		for _, r := range snap {
			for _, g := range splitGenres(r.Genres) {
				counts[g]++
			}
		}
		for _, g := range genres {
			pct := 0.0
			if len(snap) > 0 {
				pct = float64(counts[g]) / float64(len(snap)) * 100
			}
			share[g] = append(share[g], pct)
		}
	}
	return genres, share
}

func (h *History) filmStats() []FilmStat {
	type agg struct {
		dates map[time.Time]struct{}
		sum   int
		n     int
	}
	byTitle := make(map[string]*agg)
	for _, r := range h.Records {
		title := displayTitle(r)
		a, ok := byTitle[title]
		if !ok {
			a = &agg{dates: make(map[time.Time]struct{})}
			byTitle[title] = a
		}
		a.dates[r.Date] = struct{}{}
		a.sum += r.Order
		a.n++
	}

	stats := make([]FilmStat, 0, len(byTitle))
	for title, a := range byTitle {
		stats = append(stats, FilmStat{
			Title:       title,
			Appearances: len(a.dates),
			AvgRank:     float64(a.sum) / float64(a.n),
		})
	}
	return stats
}

func topBy(stats []FilmStat, n int, less func(a, b FilmStat) bool) []FilmStat {
	out := append([]FilmStat(nil), stats...)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			out = append(out, g)
		}
	}
	return out
}
