package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonespecs-scraper/fetch"
	"phonespecs-scraper/models"
	"phonespecs-scraper/scraper/gsmarena"
	"phonespecs-scraper/utils"
)

type fakeExtractor struct {
	calls []string
	fail  map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (*models.SpecRecord, error) {
	f.calls = append(f.calls, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	rec := models.NewSpecRecord()
	rec.Source = url
	return rec, nil
}

func testPacer(delays *[]time.Duration) *utils.Pacer {
	p := utils.NewPacer(2*time.Second, 5*time.Second)
	p.Jitter = func(n int64) int64 { return n - 1 }
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return p
}

func entry(title, url string) models.ListingEntry {
	return models.ListingEntry{Title: title, FullURL: models.StringPtr(url), PageNumber: 1}
}

func TestBatchDriverRun(t *testing.T) {
	ext := &fakeExtractor{fail: map[string]error{"https://x/p7": errors.New("boom")}}
	var delays []time.Duration
	driver := NewBatchDriver(ext, testPacer(&delays), newTestLogger())

	res, err := driver.Run(context.Background(), []models.ListingEntry{
		entry("Pixel 8", "https://x/p8"),
		{Title: "Pixel Fold", PageNumber: 1},
		entry("Pixel 7", "https://x/p7"),
		entry("Pixel 6", "https://x/p6"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://x/p8", "https://x/p7", "https://x/p6"}, ext.calls,
		"entries without full_url are never fetched")
	assert.Equal(t, 4, res.Total)

	require.Len(t, res.Succeeded, 2)
	assert.Equal(t, "Pixel 8", res.Succeeded[0].Title)
	assert.Equal(t, "https://x/p8", res.Succeeded[0].Specs.Source)
	assert.Equal(t, "Pixel 6", res.Succeeded[1].Title)

	assert.Equal(t, []string{"Pixel Fold", "Pixel 7"}, titles(res.FailedEntries()))
	assert.ErrorIs(t, res.Failed[0].Err, errMissingURL)

	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, delays,
		"one politeness delay between consecutive fetches")
}

func TestBatchDriverStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ext := &fakeExtractor{}
	var delays []time.Duration
	pacer := testPacer(&delays)
	pacer.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	res, err := NewBatchDriver(ext, pacer, newTestLogger()).Run(ctx, []models.ListingEntry{
		entry("Pixel 8", "https://x/p8"),
		entry("Pixel 7", "https://x/p7"),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Succeeded, 1)
	assert.Equal(t, []string{"https://x/p8"}, ext.calls)
}

// rateLimitedFetcher answers 429 for one URL and a minimal detail page otherwise.
type rateLimitedFetcher struct {
	limited string
	hits    map[string]int
}

func (f *rateLimitedFetcher) Fetch(_ context.Context, url string) (*fetch.Page, error) {
	f.hits[url]++
	if url == f.limited {
		return &fetch.Page{URL: url, StatusCode: 429}, nil
	}
	body := `<html><body><h1 class="specs-phone-name-title">Google Pixel 7</h1><div id="specs-list"></div></body></html>`
	return &fetch.Page{URL: url, StatusCode: 200, Body: []byte(body)}, nil
}

func TestBatchContinuesAfterRateLimitExhausted(t *testing.T) {
	var retryDelays, paceDelays []time.Duration
	f := &rateLimitedFetcher{limited: "https://x/p8", hits: map[string]int{}}

	opts := gsmarena.DefaultExtractorOptions()
	opts.Sleep = func(_ context.Context, d time.Duration) error {
		retryDelays = append(retryDelays, d)
		return nil
	}
	ext := gsmarena.NewExtractor(f, newTestLogger(), opts)

	res, err := NewBatchDriver(ext, testPacer(&paceDelays), newTestLogger()).Run(context.Background(),
		[]models.ListingEntry{entry("Pixel 8", "https://x/p8"), entry("Pixel 7", "https://x/p7")})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, retryDelays)
	assert.Equal(t, 4, f.hits["https://x/p8"])
	assert.Equal(t, 1, f.hits["https://x/p7"], "the next device is still attempted")

	require.Len(t, res.Failed, 1)
	assert.True(t, fetch.IsStatus(res.Failed[0].Err, 429))
	require.Len(t, res.Succeeded, 1)
	assert.Equal(t, "Google", res.Succeeded[0].Specs.Manufacturer)
}

func titles(entries []models.ListingEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}
