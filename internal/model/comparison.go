package model

import (
	"time"

	"github.com/google/uuid"
)

// PriceQuote is a single platform's offer as it appears in a comparison summary.
type PriceQuote struct {
	Platform string
	Price    float64
	Currency string
	URL      string
	InStock  bool
}

// ComparisonEntry is one row of the full listing set returned with a comparison,
// sorted ascending by price.
type ComparisonEntry struct {
	Platform  string
	Price     float64
	Currency  string
	URL       string
	InStock   bool
	UpdatedAt time.Time
}

// PriceComparison is the derived aggregate view over a product's listings.
// LowestPrice, HighestPrice and AveragePrice are computed over in-stock listings
// only and are nil when no purchasable offer exists. PlatformCount counts every
// listing regardless of stock status.
type PriceComparison struct {
	ProductID     uuid.UUID
	ProductName   string
	LowestPrice   *PriceQuote
	HighestPrice  *PriceQuote
	AveragePrice  *float64
	PlatformCount int
	Listings      []ComparisonEntry
}
