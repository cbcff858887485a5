package scrape

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reelrank/reelrank/internal/model"
)

// ParseListing extracts film references from one listing page. Each
// poster card carries the film ID and a relative link to its detail page;
// cards missing either attribute are skipped.
func ParseListing(r io.Reader, baseURL string) ([]model.FilmRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	base := strings.TrimRight(baseURL, "/")

	var refs []model.FilmRef
	doc.Find("li.poster-container").Each(func(_ int, card *goquery.Selection) {
		div := card.Find("div.really-lazy-load").First()
		id, okID := div.Attr("data-film-id")
		slug, okSlug := div.Attr("data-target-link")
		if !okID || !okSlug || id == "" || slug == "" {
			return
		}
		refs = append(refs, model.FilmRef{ID: id, URL: base + slug})
	})

	return refs, nil
}

// PageURL builds the address of one listing page: <listing>/page/<n>/.
func PageURL(listingURL string, page int) string {
	return fmt.Sprintf("%s/page/%d/", strings.TrimRight(listingURL, "/"), page)
}
