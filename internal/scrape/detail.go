package scrape

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// FilmDetails holds the fields scraped from one film's detail page.
// Nil means the page did not expose the field; the record is still
// produced with whatever was found.
type FilmDetails struct {
	Title          *string
	RatingCount    *int
	RatingValue    *float64
	Genres         []string
	Runtime        *int // minutes
	TMDBType       *string
	HasDescription bool
	PosterURL      *string
}

var (
	// \p{Zs} because the site separates the number from "mins" with &nbsp;
	runtimeRe = regexp.MustCompile(`(\d+)[\s\p{Zs}]*mins`)
	tmdbRe    = regexp.MustCompile(`themoviedb\.org/([^/]+)/\d+`)
)

// FilmDetails fetches url and scrapes the detail fields from it.
func (f *Fetcher) FilmDetails(ctx context.Context, url string) (*FilmDetails, error) {
	html, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseDetails(strings.NewReader(html))
}

// ParseDetails scrapes the detail fields out of a film page. Every field
// degrades to nil/empty on its own; only an unreadable document is an
// error.
func ParseDetails(r io.Reader) (*FilmDetails, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	d := &FilmDetails{}

	if t := strings.TrimSpace(doc.Find("h1.headline-1.primaryname span.name").First().Text()); t != "" {
		d.Title = &t
	}

	parseStructuredData(doc, d)

	doc.Find("div#tab-genres .text-sluglist p a").Each(func(_ int, a *goquery.Selection) {
		d.Genres = append(d.Genres, a.Text())
	})

	parseFooter(doc, d)

	d.HasDescription = doc.Find(`meta[name="description"]`).Length() > 0 ||
		doc.Find(`meta[property="og:description"]`).Length() > 0

	return d, nil
}

// parseStructuredData pulls ratings and the poster out of the embedded
// ld+json block. The block is wrapped in CDATA comment markers that must
// be stripped before it parses as JSON; any parse failure leaves the
// fields nil.
func parseStructuredData(doc *goquery.Document, d *FilmDetails) {
	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if raw == "" {
		return
	}

	jsonText := strings.TrimSpace(raw)
	jsonText = strings.ReplaceAll(jsonText, "/* <![CDATA[ */", "")
	jsonText = strings.ReplaceAll(jsonText, "/* ]]> */", "")

	if !gjson.Valid(jsonText) {
		return
	}
	if v := gjson.Get(jsonText, "aggregateRating.ratingCount"); v.Exists() {
		n := int(v.Int())
		d.RatingCount = &n
	}
	if v := gjson.Get(jsonText, "aggregateRating.ratingValue"); v.Exists() {
		f := v.Float()
		d.RatingValue = &f
	}
	if v := gjson.Get(jsonText, "image"); v.Type == gjson.String {
		s := v.String()
		d.PosterURL = &s
	}
}

// parseFooter extracts the runtime and the TMDB classification from the
// footer line ("104 mins ... More at TMDB").
func parseFooter(doc *goquery.Document, d *FilmDetails) {
	footer := doc.Find("p.text-link.text-footer").First()
	if footer.Length() == 0 {
		return
	}

	if m := runtimeRe.FindStringSubmatch(footer.Text()); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			d.Runtime = &n
		}
	}

	footer.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if m := tmdbRe.FindStringSubmatch(href); m != nil {
			t := m[1]
			d.TMDBType = &t
			return false
		}
		return true
	})
}
