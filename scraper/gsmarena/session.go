package gsmarena

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"phonespecs-scraper/fetch"
	"phonespecs-scraper/utils"
)

// Selectors locate the parts of a listing page the crawler reads.
type Selectors struct {
	Rows          string
	Pagination    string
	DisabledClass string
}

// DefaultSelectors matches the maker listing pages.
func DefaultSelectors() Selectors {
	return Selectors{
		Rows:          "div.makers li > a",
		Pagination:    "div.nav-pages",
		DisabledClass: "prevnextbuttondis",
	}
}

// Session owns everything one crawl shares between pages: the fetcher
// (and its connection pool), the page selectors and the set of pages
// already visited. Pages visited by a session are never fetched again.
type Session struct {
	fetcher   fetch.Fetcher
	logger    *utils.Logger
	selectors Selectors
	visited   *utils.URLSet
}

// NewSession creates a crawl session using the default selectors.
func NewSession(f fetch.Fetcher, logger *utils.Logger) *Session {
	return &Session{
		fetcher:   f,
		logger:    logger,
		selectors: DefaultSelectors(),
		visited:   utils.NewURLSet(),
	}
}

// WithSelectors replaces the session's selectors.
func (s *Session) WithSelectors(sel Selectors) *Session {
	s.selectors = sel
	return s
}

// Visited reports how many distinct pages the session has seen.
func (s *Session) Visited() int {
	return s.visited.Size()
}

// fetchDocument fetches url and parses it. HTTP statuses of 400 and above
// are returned as *fetch.StatusError.
func (s *Session) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if page.StatusCode >= 400 {
		return nil, &fetch.StatusError{URL: url, StatusCode: page.StatusCode}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
