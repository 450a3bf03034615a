package gsmarena

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"phonespecs-scraper/fetch"
	"phonespecs-scraper/models"
	"phonespecs-scraper/utils"
)

// ExtractorOptions tunes rate-limit handling for detail pages.
type ExtractorOptions struct {
	// RateLimitRetries is how many extra attempts an HTTP 429 earns.
	RateLimitRetries int
	// RateLimitBackoff is the first wait; each following wait doubles.
	RateLimitBackoff time.Duration

	// Sleep and Now are replaceable in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

// DefaultExtractorOptions retries a 429 three times, after 5s, 10s and 20s.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{RateLimitRetries: 3, RateLimitBackoff: 5 * time.Second}
}

// Extractor turns detail pages into SpecRecords.
type Extractor struct {
	fetcher fetch.Fetcher
	logger  *utils.Logger
	retry   *utils.RetryConfig
	now     func() time.Time
}

// NewExtractor returns an Extractor fetching through f, which is expected
// to supply its own (randomized) user agent.
func NewExtractor(f fetch.Fetcher, logger *utils.Logger, opts ExtractorOptions) *Extractor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Extractor{
		fetcher: f,
		logger:  logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.RateLimitRetries + 1,
			BaseDelay:   opts.RateLimitBackoff,
			Logger:      logger,
			Retryable: func(err error) bool {
				return fetch.IsStatus(err, http.StatusTooManyRequests)
			},
			Sleep: opts.Sleep,
		},
		now: now,
	}
}

// Extract fetches and parses one detail page.
func (e *Extractor) Extract(ctx context.Context, url string) (*models.SpecRecord, error) {
	page, err := e.fetchDetail(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	table, err := ParseSpecTable(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	e.logger.Debug("[detail] %s: %d spec categories", table.Name, len(table.Categories()))

	return Project(table, url, e.now())
}

// fetchDetail retries HTTP 429 with exponential backoff. Any other
// non-200 status or transport error fails at once.
func (e *Extractor) fetchDetail(ctx context.Context, url string) (*fetch.Page, error) {
	var page *fetch.Page
	err := e.retry.Do(ctx, "detail "+url, func() error {
		p, err := e.fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}
		if p.StatusCode != http.StatusOK {
			return &fetch.StatusError{URL: url, StatusCode: p.StatusCode}
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
