package scrape

import (
	"strings"
	"testing"
)

const detailFixture = `<html>
<head>
<meta name="description" content="A film about things.">
<meta property="og:description" content="A film about things.">
<script type="application/ld+json">
/* <![CDATA[ */
{"@type":"Movie","image":"https://a.ltrbxd.com/resized/poster.jpg","aggregateRating":{"ratingCount":904866,"ratingValue":4.56}}
/* ]]> */
</script>
</head>
<body>
<h1 class="headline-1 primaryname"><span class="name js-widont prettify">Parasite</span></h1>
<div id="tab-genres">
  <div class="text-sluglist">
    <p><a href="/films/genre/comedy/">Comedy</a> <a href="/films/genre/thriller/">Thriller</a> <a href="/films/genre/drama/">Drama</a></p>
  </div>
</div>
<p class="text-link text-footer">
  132&nbsp;mins &nbsp;More at
  <a href="https://www.imdb.com/title/tt6751668/maindetails" class="micro-button">IMDb</a>
  <a href="https://www.themoviedb.org/movie/496243" class="micro-button">TMDB</a>
</p>
</body>
</html>`

func TestParseDetails_FullPage(t *testing.T) {
	d, err := ParseDetails(strings.NewReader(detailFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Title == nil || *d.Title != "Parasite" {
		t.Errorf("expected title Parasite, got %v", d.Title)
	}
	if d.RatingCount == nil || *d.RatingCount != 904866 {
		t.Errorf("expected rating count 904866, got %v", d.RatingCount)
	}
	if d.RatingValue == nil || *d.RatingValue != 4.56 {
		t.Errorf("expected rating value 4.56, got %v", d.RatingValue)
	}
	if len(d.Genres) != 3 || d.Genres[0] != "Comedy" || d.Genres[2] != "Drama" {
		t.Errorf("unexpected genres: %v", d.Genres)
	}
	if d.Runtime == nil || *d.Runtime != 132 {
		t.Errorf("expected runtime 132, got %v", d.Runtime)
	}
	if d.TMDBType == nil || *d.TMDBType != "movie" {
		t.Errorf("expected TMDB type movie, got %v", d.TMDBType)
	}
	if !d.HasDescription {
		t.Error("expected HasDescription true")
	}
	if d.PosterURL == nil || *d.PosterURL != "https://a.ltrbxd.com/resized/poster.jpg" {
		t.Errorf("unexpected poster URL: %v", d.PosterURL)
	}
}

func TestParseDetails_EmptyPage(t *testing.T) {
	d, err := ParseDetails(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Title != nil {
		t.Errorf("expected nil title, got %q", *d.Title)
	}
	if d.RatingCount != nil || d.RatingValue != nil || d.PosterURL != nil {
		t.Error("expected nil rating fields")
	}
	if len(d.Genres) != 0 {
		t.Errorf("expected no genres, got %v", d.Genres)
	}
	if d.Runtime != nil || d.TMDBType != nil {
		t.Error("expected nil runtime and TMDB type")
	}
	if d.HasDescription {
		t.Error("expected HasDescription false")
	}
}

func TestParseDetails_MalformedStructuredData(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{not json at all</script>
</head><body>
<h1 class="headline-1 primaryname"><span class="name">Broken</span></h1>
</body></html>`

	d, err := ParseDetails(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse failure must not be fatal: %v", err)
	}

	// Record still produced with the fields that did parse
	if d.Title == nil || *d.Title != "Broken" {
		t.Errorf("expected title Broken, got %v", d.Title)
	}
	if d.RatingCount != nil || d.RatingValue != nil || d.PosterURL != nil {
		t.Error("expected rating fields to default to nil on parse failure")
	}
}

func TestParseDetails_TMDBTVType(t *testing.T) {
	page := `<html><body>
<p class="text-link text-footer">
  45 mins <a href="https://www.themoviedb.org/tv/1396">TMDB</a>
</p>
</body></html>`

	d, err := ParseDetails(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TMDBType == nil || *d.TMDBType != "tv" {
		t.Errorf("expected TMDB type tv, got %v", d.TMDBType)
	}
	if d.Runtime == nil || *d.Runtime != 45 {
		t.Errorf("expected runtime 45, got %v", d.Runtime)
	}
}

func TestParseDetails_OGDescriptionOnly(t *testing.T) {
	page := `<html><head><meta property="og:description" content="x"></head><body></body></html>`

	d, err := ParseDetails(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.HasDescription {
		t.Error("expected og:description alone to set HasDescription")
	}
}
