// Package trends is the downstream consumer of the history file: it
// loads accumulated snapshots and turns them into summary statistics and
// charts. It never feeds back into the scraper.
package trends

import (
	"fmt"
	"sort"
	"time"

	"github.com/reelrank/reelrank/internal/history"
	"github.com/reelrank/reelrank/internal/model"
)

// Record is one history row with its snapshot date parsed.
type Record struct {
	model.FilmRecord
	Date time.Time
}

// History is the loaded dataset, indexed by snapshot date.
type History struct {
	Records []Record
	Dates   []time.Time // sorted unique snapshot dates

	byDate map[time.Time][]Record
}

// Load reads and indexes the history file. Rows with unparsable dates
// are rejected: a corrupt date would silently skew every per-snapshot
// statistic.
func Load(path string) (*History, error) {
	rows, err := history.Load(path)
	if err != nil {
		return nil, err
	}

	h := &History{byDate: make(map[time.Time][]Record)}
	for _, row := range rows {
		date, err := parseDate(row.SnapshotDate)
		if err != nil {
			return nil, err
		}
		rec := Record{FilmRecord: row, Date: date}
		h.Records = append(h.Records, rec)
		if _, ok := h.byDate[date]; !ok {
			h.Dates = append(h.Dates, date)
		}
		h.byDate[date] = append(h.byDate[date], rec)
	}

	sort.Slice(h.Dates, func(i, j int) bool { return h.Dates[i].Before(h.Dates[j]) })
	return h, nil
}

// Snapshot returns the records captured on one date.
func (h *History) Snapshot(date time.Time) []Record {
	return h.byDate[date]
}

// LatestDate returns the most recent snapshot date, or zero when empty.
func (h *History) LatestDate() time.Time {
	if len(h.Dates) == 0 {
		return time.Time{}
	}
	return h.Dates[len(h.Dates)-1]
}

// parseDate accepts ISO dates and the M/D/YYYY form found in early
// hand-collected snapshots.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized snapshot date: %q", s)
}

// displayTitle falls back to the film ID when the title was never scraped.
func displayTitle(r Record) string {
	if r.Title != nil && *r.Title != "" {
		return *r.Title
	}
	return "film #" + r.FilmID
}
