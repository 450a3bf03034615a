package storage

import "phonespecs-scraper/models"

// SoldItemWriter is the interface any sold-price output must satisfy.
type SoldItemWriter interface {
	WriteSold(items []*models.SoldItem) error
	Close() error
}

var _ SoldItemWriter = (*CSVWriter)(nil)
