package worker

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/reelrank/reelrank/internal/model"
	"github.com/reelrank/reelrank/internal/scrape"
)

// DetailFetcher fetches and parses one film's detail page.
type DetailFetcher interface {
	FilmDetails(ctx context.Context, url string) (*scrape.FilmDetails, error)
}

// detailJob fetches one ranked film's details.
type detailJob struct {
	order   int
	film    model.RankedFilm
	date    string
	fetcher DetailFetcher
}

// detailResult carries the record or the per-film failure.
type detailResult struct {
	record model.FilmRecord
	url    string
	err    error
}

// Err returns the error from the detail fetch.
func (r *detailResult) Err() error { return r.err }

// Execute fetches the film's detail page and builds its history record.
func (j *detailJob) Execute(ctx context.Context) Result {
	details, err := j.fetcher.FilmDetails(ctx, j.film.URL)
	if err != nil {
		return &detailResult{url: j.film.URL, err: err}
	}
	return &detailResult{
		url: j.film.URL,
		record: model.FilmRecord{
			Order:          j.order,
			FilmID:         j.film.ID,
			FilmURL:        j.film.URL,
			Title:          details.Title,
			RatingCount:    details.RatingCount,
			RatingValue:    details.RatingValue,
			Genres:         strings.Join(details.Genres, ", "),
			Runtime:        details.Runtime,
			TMDBType:       details.TMDBType,
			HasDescription: details.HasDescription,
			PosterURL:      details.PosterURL,
			SnapshotDate:   j.date,
		},
	}
}

// Enricher fans detail fetches out over a bounded worker pool.
type Enricher struct {
	fetcher DetailFetcher
	workers int
	verbose bool
}

// NewEnricher creates an enricher with the given pool width.
func NewEnricher(fetcher DetailFetcher, workers int, verbose bool) *Enricher {
	return &Enricher{fetcher: fetcher, workers: workers, verbose: verbose}
}

// EnrichAll fetches details for every ranked film and returns the records
// sorted back into rank order, whatever order the fetches completed in.
// A film whose fetch fails is reported and omitted; it never fails the
// batch. Cancelling ctx stops submission and returns the records that
// already completed.
func (e *Enricher) EnrichAll(ctx context.Context, films []model.RankedFilm, date string) []model.FilmRecord {
	if len(films) == 0 {
		return nil
	}

	pool := NewPool(e.workers)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for i, film := range films {
			job := &detailJob{order: i + 1, film: film, date: date, fetcher: e.fetcher}
			if !pool.Submit(ctx, job) {
				return
			}
		}
	}()

	results := pool.Wait()

	records := make([]model.FilmRecord, 0, len(results))
	failures := 0
	for _, result := range results {
		dr := result.(*detailResult)
		if dr.err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", dr.url, dr.err)
			continue
		}
		records = append(records, dr.record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Order < records[j].Order })

	if e.verbose {
		fmt.Fprintf(os.Stderr, "✓ Enriched %d/%d films (%d failures)\n", len(records), len(films), failures)
	}

	return records
}
