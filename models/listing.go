package models

// ListingEntry is one catalog row kept by a vendor's inclusion policy.
// Entries are appended in crawl order and never modified afterwards.
type ListingEntry struct {
	Title      string  `json:"title"`
	Link       *string `json:"link"`
	FullURL    *string `json:"full_url"`
	Image      *string `json:"image"`
	PageNumber int     `json:"page_number"`

	// Series is only set by series-based policies (e.g. Galaxy S, Galaxy Z Fold).
	Series string `json:"series,omitempty"`
}

// URL returns the absolute detail-page URL, or "" when the row had no href.
func (e ListingEntry) URL() string {
	if e.FullURL == nil {
		return ""
	}
	return *e.FullURL
}

// DeviceRecord is a listing entry augmented with its parsed specifications.
type DeviceRecord struct {
	ListingEntry
	Specs *SpecRecord `json:"specs"`
}

// ListingSummary is written next to the plain entries file after a crawl.
type ListingSummary struct {
	TotalPhones  int            `json:"total_phones"`
	PagesScraped int            `json:"pages_scraped"`
	SeriesCounts map[string]int `json:"series_counts,omitempty"`
	Phones       []ListingEntry `json:"phones"`
}

// StringPtr returns nil for an empty string so it encodes as JSON null.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
