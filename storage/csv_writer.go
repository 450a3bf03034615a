package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"phonespecs-scraper/models"
)

// CSVWriter writes cleaned sold items to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// SoldItemsFilename returns the CSV name for a keyword query,
// e.g. "iPhone 14 Pro" -> "ebay_sold_data_iPhone_14_Pro.csv".
func SoldItemsFilename(keywords string) string {
	return "ebay_sold_data_" + strings.ReplaceAll(keywords, " ", "_") + ".csv"
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	// Write header
	if err := w.Write([]string{"title", "sold_price", "currency", "date_sold"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteSold appends one row per item.
func (c *CSVWriter) WriteSold(items []*models.SoldItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range items {
		row := []string{
			it.Title,
			strconv.FormatFloat(it.SoldPrice, 'f', -1, 64),
			it.Currency,
			it.DateSold.UTC().Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
