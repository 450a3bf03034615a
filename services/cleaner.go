package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"phonespecs-scraper/models"
	"phonespecs-scraper/utils"
)

var (
	// priceRegexp captures numeric price values
	priceRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// endTimeLayouts are tried in order when parsing a listing's end time.
var endTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Cleaner transforms RawSoldItems into clean, typed SoldItems.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts raw items, dropping any whose price cannot be parsed.
// An unparsable end time is kept as the zero time.
func (c *Cleaner) Clean(raw []models.RawSoldItem) []*models.SoldItem {
	result := make([]*models.SoldItem, 0, len(raw))

	for _, r := range raw {
		price, ok := c.parsePrice(r.RawPrice)
		if !ok {
			c.logger.Warn("[cleaner] Dropping item with unparsable price %q: %s", r.RawPrice, r.Title)
			continue
		}

		sold, ok := parseEndTime(r.EndTime)
		if !ok {
			c.logger.Debug("[cleaner] Unparsable end time %q: %s", r.EndTime, r.Title)
		}

		result = append(result, &models.SoldItem{
			Title:     normaliseText(r.Title),
			SoldPrice: price,
			Currency:  strings.ToUpper(strings.TrimSpace(r.Currency)),
			DateSold:  sold,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d items (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts the first numeric value from a price string.
// Examples:
//
//	"649.99"     → 649.99
//	"$1,099.00"  → 1099
//	"N/A"        → not ok
func (c *Cleaner) parsePrice(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func parseEndTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range endTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
