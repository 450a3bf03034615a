package models

import "time"

// RawSoldItem holds one completed marketplace listing exactly as the API returned it.
type RawSoldItem struct {
	Title    string
	RawPrice string
	Currency string
	EndTime  string
}

// SoldItem is a cleaned completed listing ready for CSV output.
type SoldItem struct {
	Title     string
	SoldPrice float64
	Currency  string
	DateSold  time.Time
}

// SoldPriceReport holds the computed statistics over cleaned sold items.
type SoldPriceReport struct {
	Keywords   string
	TotalItems int
	ByCurrency map[string]*CurrencyStats
	MostRecent *SoldItem
	OldestSale *SoldItem
}

// CurrencyStats aggregates prices in a single currency.
type CurrencyStats struct {
	Count        int
	AveragePrice float64
	MinPrice     float64
	MaxPrice     float64
}
