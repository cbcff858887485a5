package scrape

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/reelrank/reelrank/internal/model"
)

// Reconciler merges several independent passes over a live, shifting
// ranking into one deterministic top-N list. Passes run sequentially with
// a cooldown between them: the listing mutates while we look at it, and
// spaced observations are the sampling device that lets the merge smooth
// that movement out. Running passes in parallel would defeat it.
type Reconciler struct {
	collector *Collector
	cfg       model.ListingConfig
	verbose   bool
}

// NewReconciler creates a reconciler over the given collector.
func NewReconciler(collector *Collector, cfg model.ListingConfig, verbose bool) *Reconciler {
	return &Reconciler{collector: collector, cfg: cfg, verbose: verbose}
}

// Reconcile runs the configured number of passes and merges their
// observations. A cancelled context stops further passes; whatever was
// observed so far still reconciles.
func (r *Reconciler) Reconcile(ctx context.Context) []model.RankedFilm {
	passes := make([]model.PassObservation, 0, r.cfg.Passes)

	for i := 0; i < r.cfg.Passes; i++ {
		if i > 0 {
			if r.verbose {
				fmt.Fprintf(os.Stderr, "Cooling down %v before pass %d...\n", r.cfg.PassCooldown, i+1)
			}
			if err := wait(ctx, r.cfg.PassCooldown); err != nil {
				break
			}
		}
		if r.verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Pass %d/%d\n", i+1, r.cfg.Passes)
		}
		passes = append(passes, r.collector.CollectPass(ctx))
	}

	return Merge(passes, r.cfg.MaxFilms)
}

// Merge folds pass observations into per-film scores and orders them.
//
// Films seen on an earlier page in any pass rank first. Among equals the
// lower average page wins, then the higher pass count: a film that
// recurred across passes was not merely lucky in one. Remaining ties fall
// back to the earliest pass that achieved the minimal page and the
// position on that page, which keeps the merge fully deterministic and
// makes a single pass degenerate to exact page/position order.
func Merge(passes []model.PassObservation, maxFilms int) []model.RankedFilm {
	scores := make(map[string]*model.Score)

	for passIdx, obs := range passes {
		for id, e := range obs {
			s, ok := scores[id]
			if !ok {
				scores[id] = &model.Score{
					ID:           id,
					URL:          e.URL,
					EarliestPage: e.Page,
					LatestPage:   e.Page,
					PassCount:    1,
					Pages:        []int{e.Page},
					FirstPass:    passIdx,
					Pos:          e.Pos,
				}
				continue
			}
			s.PassCount++
			s.Pages = append(s.Pages, e.Page)
			if e.Page < s.EarliestPage {
				s.EarliestPage = e.Page
				s.URL = e.URL
				s.FirstPass = passIdx
				s.Pos = e.Pos
			}
			if e.Page > s.LatestPage {
				s.LatestPage = e.Page
			}
		}
	}

	ranked := make([]*model.Score, 0, len(scores))
	for _, s := range scores {
		var sum int
		for _, p := range s.Pages {
			sum += p
		}
		s.AvgPage = float64(sum) / float64(len(s.Pages))
		ranked = append(ranked, s)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.EarliestPage != b.EarliestPage {
			return a.EarliestPage < b.EarliestPage
		}
		if a.AvgPage != b.AvgPage {
			return a.AvgPage < b.AvgPage
		}
		if a.PassCount != b.PassCount {
			return a.PassCount > b.PassCount
		}
		if a.FirstPass != b.FirstPass {
			return a.FirstPass < b.FirstPass
		}
		return a.Pos < b.Pos
	})

	if len(ranked) > maxFilms {
		ranked = ranked[:maxFilms]
	}

	out := make([]model.RankedFilm, len(ranked))
	for i, s := range ranked {
		out[i] = model.RankedFilm{ID: s.ID, URL: s.URL}
	}
	return out
}
