package gsmarena

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"phonespecs-scraper/models"
)

// StopReason records why a crawl ended.
type StopReason string

const (
	StopNoPagination StopReason = "no pagination control"
	StopLastPage     StopReason = "last page reached"
	StopNoHref       StopReason = "next link has no href"
	StopLoop         StopReason = "next page already visited"
)

// CrawlResult is everything a crawl collected.
type CrawlResult struct {
	Entries      []models.ListingEntry
	PagesScraped int
	Stop         StopReason
	SeriesCounts map[string]int
}

// Summary builds the summary document for the result.
func (r *CrawlResult) Summary() models.ListingSummary {
	return models.ListingSummary{
		TotalPhones:  len(r.Entries),
		PagesScraped: r.PagesScraped,
		SeriesCounts: r.SeriesCounts,
		Phones:       r.Entries,
	}
}

// Crawl walks the listing from startURL, keeping the rows policy accepts,
// until pagination runs out or leads back to a visited page. Any fetch
// failure aborts the crawl and nothing collected so far is returned.
func (s *Session) Crawl(ctx context.Context, startURL string, policy InclusionPolicy) (*CrawlResult, error) {
	result := &CrawlResult{Entries: []models.ListingEntry{}}
	current := startURL
	s.visited.Add(current)

	for page := 1; ; page++ {
		s.logger.Info("[crawl] Page %d: %s", page, current)

		doc, err := s.fetchDocument(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}
		result.PagesScraped = page

		kept := s.collectRows(doc, current, page, policy, result)
		s.logger.Info("[crawl] Page %d: kept %d devices", page, kept)

		next, stop := s.nextPage(doc, current)
		if stop != "" {
			result.Stop = stop
			break
		}
		if !s.visited.Add(next) {
			s.logger.Warn("[crawl] Pagination loops back to %s, stopping", next)
			result.Stop = StopLoop
			break
		}
		current = next
	}

	s.logger.Info("[crawl] Done: %d devices over %d pages (%s)",
		len(result.Entries), result.PagesScraped, result.Stop)
	return result, nil
}

func (s *Session) collectRows(doc *goquery.Document, pageURL string, page int, policy InclusionPolicy, result *CrawlResult) int {
	base, _ := url.Parse(pageURL)
	kept := 0

	doc.Find(s.selectors.Rows).Each(func(_ int, a *goquery.Selection) {
		title := strippedText(a)
		keep, series := policy.Classify(title)
		if !keep {
			s.logger.Debug("[crawl] Skipped: %s", title)
			return
		}

		entry := models.ListingEntry{
			Title:      title,
			PageNumber: page,
			Series:     series,
		}
		if href, ok := a.Attr("href"); ok {
			entry.Link = &href
			if href != "" {
				entry.FullURL = resolve(base, href)
			}
		}
		if src, ok := a.Find("img").First().Attr("src"); ok {
			entry.Image = &src
		}

		if series != "" {
			if result.SeriesCounts == nil {
				result.SeriesCounts = make(map[string]int)
			}
			result.SeriesCounts[series]++
			s.logger.Info("[crawl]   + %s [%s]", title, series)
		} else {
			s.logger.Info("[crawl]   + %s", title)
		}

		result.Entries = append(result.Entries, entry)
		kept++
	})
	return kept
}

// nextPage reads the pagination control. It returns the absolute URL of
// the next page, or the reason there is none.
func (s *Session) nextPage(doc *goquery.Document, pageURL string) (string, StopReason) {
	nav := doc.Find(s.selectors.Pagination).First()
	if nav.Length() == 0 {
		return "", StopNoPagination
	}
	links := nav.Find("a")
	if links.Length() == 0 {
		return "", StopLastPage
	}
	last := links.Last()
	if last.HasClass(s.selectors.DisabledClass) {
		return "", StopLastPage
	}
	href, ok := last.Attr("href")
	if !ok || href == "" {
		return "", StopNoHref
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", StopNoHref
	}
	next := resolve(base, href)
	if next == nil {
		return "", StopNoHref
	}
	return *next, ""
}

func resolve(base *url.URL, href string) *string {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	var abs string
	if base == nil {
		abs = ref.String()
	} else {
		abs = base.ResolveReference(ref).String()
	}
	return &abs
}
