package model

// FilmRef identifies one film as it appears on the listing: a stable
// numeric ID from the poster card plus the absolute URL of its detail page.
// The ID is the deduplication key across pages, passes and snapshots.
type FilmRef struct {
	ID  string
	URL string
}

// PassEntry records where a film was first seen within a single pass.
// Pages are fetched in ascending order, so first-seen is also
// earliest-page within the pass.
type PassEntry struct {
	URL  string
	Page int // 1-based page index
	Pos  int // 1-based position on that page
}

// PassObservation maps film ID to its first sighting within one pass.
// Each ID appears at most once per pass.
type PassObservation map[string]PassEntry

// Score aggregates a film's placement across all passes of one run.
type Score struct {
	ID           string
	URL          string  // locator from the earliest pass achieving EarliestPage
	EarliestPage int     // min page over all passes
	LatestPage   int     // max page over all passes
	PassCount    int     // number of passes the film appeared in
	Pages        []int   // one page entry per appearing pass, in pass order
	AvgPage      float64 // mean of Pages
	FirstPass    int     // index of the pass that achieved EarliestPage
	Pos          int     // position on EarliestPage in that pass
}

// RankedFilm is one entry of the reconciled top-N list. Only identity and
// locator survive reconciliation; the Score fields are diagnostic.
type RankedFilm struct {
	ID  string
	URL string
}
