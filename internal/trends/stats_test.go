package trends

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/reelrank/reelrank/internal/history"
	"github.com/reelrank/reelrank/internal/model"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func row(order int, id, title, genres, date string) model.FilmRecord {
	return model.FilmRecord{
		Order:        order,
		FilmID:       id,
		FilmURL:      "https://letterboxd.com/film/" + id + "/",
		Title:        strPtr(title),
		Genres:       genres,
		SnapshotDate: date,
	}
}

func writeHistory(t *testing.T, records []model.FilmRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	if err := history.Append(records, path); err != nil {
		t.Fatalf("write history: %v", err)
	}
	return path
}

func testHistory(t *testing.T) *History {
	t.Helper()
	path := writeHistory(t, []model.FilmRecord{
		row(1, "1", "Alpha", "Drama", "2026-08-01"),
		row(2, "2", "Beta", "Drama, Comedy", "2026-08-01"),
		row(1, "2", "Beta", "Drama, Comedy", "2026-08-08"),
		row(2, "3", "Gamma", "Horror", "2026-08-08"),
	})
	h, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return h
}

func TestParseDate(t *testing.T) {
	iso, err := parseDate("2026-08-30")
	if err != nil {
		t.Fatalf("ISO date rejected: %v", err)
	}
	slash, err := parseDate("8/30/2026")
	if err != nil {
		t.Fatalf("M/D/YYYY date rejected: %v", err)
	}
	if !iso.Equal(slash) {
		t.Errorf("formats disagree: %v vs %v", iso, slash)
	}
	if _, err := parseDate("next tuesday"); err == nil {
		t.Error("expected error for garbage date")
	}
}

func TestSummarize(t *testing.T) {
	h := testHistory(t)
	s := h.Summarize(10)

	if s.Snapshots != 2 {
		t.Errorf("expected 2 snapshots, got %d", s.Snapshots)
	}
	if s.UniqueFilms != 3 {
		t.Errorf("expected 3 unique films, got %d", s.UniqueFilms)
	}
	if s.TotalRows != 4 {
		t.Errorf("expected 4 rows, got %d", s.TotalRows)
	}
	if !s.FirstDate.Equal(mustDate(t, "2026-08-01")) || !s.LastDate.Equal(mustDate(t, "2026-08-08")) {
		t.Errorf("unexpected date range: %v - %v", s.FirstDate, s.LastDate)
	}

	// Beta appears in both snapshots; everyone else in one
	if s.MostConsistent[0].Title != "Beta" || s.MostConsistent[0].Appearances != 2 {
		t.Errorf("unexpected most consistent: %+v", s.MostConsistent[0])
	}

	// Alpha's only rank is 1; Beta averages (2+1)/2
	if s.BestAverage[0].Title != "Alpha" || s.BestAverage[0].AvgRank != 1 {
		t.Errorf("unexpected best average: %+v", s.BestAverage[0])
	}
	if s.BestAverage[1].Title != "Beta" || s.BestAverage[1].AvgRank != 1.5 {
		t.Errorf("unexpected second best average: %+v", s.BestAverage[1])
	}

	if len(s.LatestTop) != 2 || s.LatestTop[0] != "Beta" {
		t.Errorf("unexpected latest top: %v", s.LatestTop)
	}
}

func TestEntriesExits(t *testing.T) {
	h := testHistory(t)
	dates, entries, exits := h.EntriesExits()

	if len(dates) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(dates))
	}
	if entries[0] != 0 || exits[0] != 0 {
		t.Errorf("first snapshot has no baseline, got entries=%d exits=%d", entries[0], exits[0])
	}
	// Snapshot 2: Gamma entered, Alpha left, Beta stayed
	if entries[1] != 1 {
		t.Errorf("expected 1 entry, got %d", entries[1])
	}
	if exits[1] != 1 {
		t.Errorf("expected 1 exit, got %d", exits[1])
	}
}

func TestGenreShare(t *testing.T) {
	h := testHistory(t)
	genres, share := h.GenreShare(2)

	// Drama spans 2 films, Comedy 1, Horror 1; top-2 cut keeps Drama
	// first with the alphabetical tie-break picking Comedy over Horror
	if len(genres) != 2 || genres[0] != "Drama" || genres[1] != "Comedy" {
		t.Fatalf("unexpected genres: %v", genres)
	}

	drama := share["Drama"]
	if len(drama) != 2 {
		t.Fatalf("expected a share per snapshot, got %d", len(drama))
	}
	if drama[0] != 100 {
		t.Errorf("snapshot 1: both films are Drama, expected 100, got %.1f", drama[0])
	}
	if drama[1] != 50 {
		t.Errorf("snapshot 2: one of two films is Drama, expected 50, got %.1f", drama[1])
	}
}

func TestSeriesFor(t *testing.T) {
	h := testHistory(t)
	dates, ranks := h.SeriesFor("Beta")

	if len(dates) != 2 {
		t.Fatalf("expected 2 points, got %d", len(dates))
	}
	if ranks[0] != 2 || ranks[1] != 1 {
		t.Errorf("unexpected rank series: %v", ranks)
	}
}

func TestSeriesFor_RatingAndTitleFallback(t *testing.T) {
	path := writeHistory(t, []model.FilmRecord{
		{Order: 1, FilmID: "9", FilmURL: "u", RatingValue: floatPtr(4.2), SnapshotDate: "2026-08-01"},
	})
	h, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Untitled films fall back to their ID
	if got := h.ConsistentFilms(1); len(got) != 1 || got[0] != "film #9" {
		t.Errorf("unexpected title fallback: %v", got)
	}
}

func TestLoad_BadDate(t *testing.T) {
	path := writeHistory(t, []model.FilmRecord{
		row(1, "1", "Alpha", "", "not-a-date"),
	})
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparsable snapshot date")
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
