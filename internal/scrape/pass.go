package scrape

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reelrank/reelrank/internal/model"
)

// Collector drives single observation passes over the paginated listing.
// A pass is strictly sequential: whether page N+1 is fetched at all
// depends on what page N returned.
type Collector struct {
	fetcher *Fetcher
	cfg     model.ListingConfig
	verbose bool
}

// NewCollector creates a collector for the configured listing source.
func NewCollector(fetcher *Fetcher, cfg model.ListingConfig, verbose bool) *Collector {
	return &Collector{fetcher: fetcher, cfg: cfg, verbose: verbose}
}

// FetchPage retrieves and parses one listing page.
func (c *Collector) FetchPage(ctx context.Context, page int) ([]model.FilmRef, error) {
	html, err := c.fetcher.Fetch(ctx, PageURL(c.cfg.ListingURL, page))
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	return ParseListing(strings.NewReader(html), c.cfg.BaseURL)
}

// CollectPass sweeps pages in ascending order from 1 and records the
// first sighting of every film. The sweep stops without error on a fetch
// failure, an empty page, or once MaxFilms distinct films have been seen;
// a truncated pass is still a valid observation. No retries: a failed
// page truncates the pass rather than aborting the run.
func (c *Collector) CollectPass(ctx context.Context) model.PassObservation {
	obs := make(model.PassObservation)

	for page := 1; page <= c.cfg.Pages; page++ {
		if page > 1 {
			if err := wait(ctx, c.cfg.PageDelay); err != nil {
				break
			}
		}

		refs, err := c.FetchPage(ctx, page)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			break
		}
		if len(refs) == 0 {
			if c.verbose {
				fmt.Fprintf(os.Stderr, "No films found on page %d.\n", page)
			}
			break
		}

		for i, ref := range refs {
			if _, seen := obs[ref.ID]; seen {
				continue
			}
			obs[ref.ID] = model.PassEntry{URL: ref.URL, Page: page, Pos: i + 1}
		}

		if c.verbose {
			fmt.Fprintf(os.Stderr, "✓ Page %d: %d films (%d total)\n", page, len(refs), len(obs))
		}

		if len(obs) >= c.cfg.MaxFilms {
			break
		}
	}

	return obs
}

// wait sleeps for d or returns early when ctx is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
