package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"phonespecs-scraper/models"
	"phonespecs-scraper/utils"
)

// InsightService computes and prints run reports.
type InsightService struct {
	logger *utils.Logger
	out    io.Writer
}

// NewInsightService prints to out, or to stdout when out is nil.
func NewInsightService(logger *utils.Logger, out io.Writer) *InsightService {
	if out == nil {
		out = os.Stdout
	}
	return &InsightService{logger: logger, out: out}
}

// Generate summarises sold items per currency.
func (s *InsightService) Generate(keywords string, items []*models.SoldItem) *models.SoldPriceReport {
	report := &models.SoldPriceReport{
		Keywords:   keywords,
		ByCurrency: make(map[string]*models.CurrencyStats),
	}

	if len(items) == 0 {
		return report
	}

	report.TotalItems = len(items)
	totals := make(map[string]float64)

	for _, it := range items {
		st, ok := report.ByCurrency[it.Currency]
		if !ok {
			st = &models.CurrencyStats{MinPrice: it.SoldPrice, MaxPrice: it.SoldPrice}
			report.ByCurrency[it.Currency] = st
		}
		st.Count++
		totals[it.Currency] += it.SoldPrice
		if it.SoldPrice < st.MinPrice {
			st.MinPrice = it.SoldPrice
		}
		if it.SoldPrice > st.MaxPrice {
			st.MaxPrice = it.SoldPrice
		}

		if it.DateSold.IsZero() {
			continue
		}
		if report.MostRecent == nil || it.DateSold.After(report.MostRecent.DateSold) {
			report.MostRecent = it
		}
		if report.OldestSale == nil || it.DateSold.Before(report.OldestSale.DateSold) {
			report.OldestSale = it
		}
	}

	for cur, st := range report.ByCurrency {
		st.AveragePrice = round2(totals[cur] / float64(st.Count))
		st.MinPrice = round2(st.MinPrice)
		st.MaxPrice = round2(st.MaxPrice)
	}

	return report
}

func (s *InsightService) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (s *InsightService) banner(title string) {
	sep := strings.Repeat("═", 54)
	fmt.Fprintf(s.out, "\n%s\n  %s\n%s\n", sep, title, sep)
}

// PrintSold renders a sold-price report.
func (s *InsightService) PrintSold(r *models.SoldPriceReport) {
	s.banner(fmt.Sprintf("SOLD PRICES: %s", r.Keywords))
	fmt.Fprintf(s.out, "  Total sold listings : %d\n", r.TotalItems)

	if len(r.ByCurrency) == 0 {
		fmt.Fprintln(s.out, "  No price data available")
		return
	}

	currencies := make([]string, 0, len(r.ByCurrency))
	for cur := range r.ByCurrency {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	t := s.newTable()
	t.AppendHeader(table.Row{"Currency", "Items", "Average", "Min", "Max"})
	for _, cur := range currencies {
		st := r.ByCurrency[cur]
		t.AppendRow(table.Row{cur, st.Count,
			fmt.Sprintf("%.2f", st.AveragePrice),
			fmt.Sprintf("%.2f", st.MinPrice),
			fmt.Sprintf("%.2f", st.MaxPrice)})
	}
	t.Render()

	if r.MostRecent != nil {
		fmt.Fprintf(s.out, "  Most recent : %s  %.2f %s  (%s)\n",
			truncate(r.MostRecent.Title, 40), r.MostRecent.SoldPrice, r.MostRecent.Currency,
			r.MostRecent.DateSold.Format("2006-01-02"))
	}
	if r.OldestSale != nil {
		fmt.Fprintf(s.out, "  Oldest      : %s  %.2f %s  (%s)\n",
			truncate(r.OldestSale.Title, 40), r.OldestSale.SoldPrice, r.OldestSale.Currency,
			r.OldestSale.DateSold.Format("2006-01-02"))
	}
}

// PrintListing renders the devices kept by a crawl.
func (s *InsightService) PrintListing(vendor string, summary models.ListingSummary) {
	s.banner(fmt.Sprintf("CRAWL COMPLETE: %s", vendor))
	fmt.Fprintf(s.out, "  Total phones  : %d\n", summary.TotalPhones)
	fmt.Fprintf(s.out, "  Pages scraped : %d\n", summary.PagesScraped)

	if len(summary.SeriesCounts) > 0 {
		names := make([]string, 0, len(summary.SeriesCounts))
		for name := range summary.SeriesCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(s.out, "    • %s: %d phones\n", name, summary.SeriesCounts[name])
		}
	}

	if len(summary.Phones) == 0 {
		return
	}

	t := s.newTable()
	header := table.Row{"#", "Title", "Page"}
	if len(summary.SeriesCounts) > 0 {
		header = table.Row{"#", "Title", "Series", "Page"}
	}
	t.AppendHeader(header)
	for i, p := range summary.Phones {
		if len(summary.SeriesCounts) > 0 {
			t.AppendRow(table.Row{i + 1, p.Title, p.Series, p.PageNumber})
		} else {
			t.AppendRow(table.Row{i + 1, p.Title, p.PageNumber})
		}
	}
	t.Render()
}

// PrintBatch renders the outcome of a details batch.
func (s *InsightService) PrintBatch(r *BatchResult) {
	s.banner("SCRAPING COMPLETE")
	fmt.Fprintf(s.out, "  Total phones processed : %d\n", r.Total)
	fmt.Fprintf(s.out, "  Successful             : %d\n", len(r.Succeeded))
	fmt.Fprintf(s.out, "  Failed                 : %d\n", len(r.Failed))

	if len(r.Failed) == 0 {
		return
	}

	t := s.newTable()
	t.AppendHeader(table.Row{"Failed phone", "URL", "Reason"})
	for _, f := range r.Failed {
		url := f.Entry.URL()
		if url == "" {
			url = "No URL"
		}
		t.AppendRow(table.Row{f.Entry.Title, url, truncate(f.Err.Error(), 60)})
	}
	t.Render()
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
