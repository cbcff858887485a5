package model

// FilmRecord is one row of the history CSV. Column names and order are a
// compatibility contract with existing datasets: new writers must match
// them exactly or older files misalign on load. Pointer fields are
// nullable and serialize as empty cells.
type FilmRecord struct {
	Order          int      `csv:"Order"`
	FilmID         string   `csv:"Film ID"`
	FilmURL        string   `csv:"Film URL"`
	Title          *string  `csv:"Film Title"`
	RatingCount    *int     `csv:"Rating Count"`
	RatingValue    *float64 `csv:"Rating Value"`
	Genres         string   `csv:"Genres"` // comma-joined
	Runtime        *int     `csv:"Runtime"`
	TMDBType       *string  `csv:"TMDB Type"`
	HasDescription bool     `csv:"Has Description"`
	PosterURL      *string  `csv:"Poster URL"`
	SnapshotDate   string   `csv:"Snapshot Date"` // YYYY-MM-DD
}
