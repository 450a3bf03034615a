package services

import (
	"context"
	"errors"

	"phonespecs-scraper/models"
	"phonespecs-scraper/utils"
)

// errMissingURL marks an entry that was never fetched.
var errMissingURL = errors.New("missing full_url")

// SpecsExtractor fetches and parses one device detail page.
type SpecsExtractor interface {
	Extract(ctx context.Context, url string) (*models.SpecRecord, error)
}

// Failure is an entry the batch could not augment, with the reason.
type Failure struct {
	Entry models.ListingEntry
	Err   error
}

// BatchResult holds the outcome of one batch run.
type BatchResult struct {
	Total     int
	Succeeded []models.DeviceRecord
	Failed    []Failure
}

// FailedEntries returns the failed entries without their errors.
func (r *BatchResult) FailedEntries() []models.ListingEntry {
	out := make([]models.ListingEntry, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Entry)
	}
	return out
}

// BatchDriver augments listing entries with their specs, one device at a time.
type BatchDriver struct {
	extractor SpecsExtractor
	pacer     *utils.Pacer
	logger    *utils.Logger
}

// NewBatchDriver returns a driver that waits pacer's delay between detail fetches.
func NewBatchDriver(extractor SpecsExtractor, pacer *utils.Pacer, logger *utils.Logger) *BatchDriver {
	return &BatchDriver{extractor: extractor, pacer: pacer, logger: logger}
}

// Run processes every entry in order. A failed device never stops the
// batch; only context cancellation does, in which case the partial result
// is returned together with the context error.
func (b *BatchDriver) Run(ctx context.Context, entries []models.ListingEntry) (*BatchResult, error) {
	result := &BatchResult{
		Total:     len(entries),
		Succeeded: make([]models.DeviceRecord, 0, len(entries)),
	}
	b.logger.Info("[batch] Found %d phones to process", len(entries))

	for i, entry := range entries {
		b.logger.Info("[batch] [%d/%d] Scraping: %s", i+1, len(entries), entry.Title)

		url := entry.URL()
		if url == "" {
			b.logger.Warn("[batch]   FAILED: missing full_url for %s", entry.Title)
			result.Failed = append(result.Failed, Failure{Entry: entry, Err: errMissingURL})
			continue
		}

		if d, err := b.pacer.Wait(ctx); err != nil {
			return result, err
		} else if d > 0 {
			b.logger.Debug("[batch]   waited %v", d)
		}

		specs, err := b.extractor.Extract(ctx, url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			b.logger.Warn("[batch]   FAILED: %v", err)
			result.Failed = append(result.Failed, Failure{Entry: entry, Err: err})
			continue
		}

		b.logger.Info("[batch]   Success")
		result.Succeeded = append(result.Succeeded, models.DeviceRecord{ListingEntry: entry, Specs: specs})
	}

	b.logger.Info("[batch] Complete: %d processed, %d succeeded, %d failed",
		result.Total, len(result.Succeeded), len(result.Failed))
	return result, nil
}
