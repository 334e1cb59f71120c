package service

import (
	"context"
	"math"

	"github.com/fiyatly/price-catalog/internal/metrics"
	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/google/uuid"
)

// ComparePrices builds the price comparison summary for a product. The product
// must exist; its listing set may be empty.
func (ls *ListingService) ComparePrices(ctx context.Context, productID uuid.UUID) (*model.PriceComparison, error) {
	product, err := ls.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	listings, err := ls.listings.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	metrics.PriceComparisons.Inc()

	return buildComparison(product, listings), nil
}

// buildComparison reduces a product's listings into a comparison summary.
// The listings must already be sorted ascending by price.
//
// Statistics cover in-stock listings only: an out-of-stock offer is never the
// cheapest or costliest buyable option and must not skew the average. When no
// listing is in stock the three statistics stay nil, signalling that there is
// no purchasable offer. PlatformCount still counts every listing.
func buildComparison(product *model.Product, listings []*model.Listing) *model.PriceComparison {
	summary := &model.PriceComparison{
		ProductID:     product.ID,
		ProductName:   product.Name,
		PlatformCount: len(listings),
		Listings:      make([]model.ComparisonEntry, 0, len(listings)),
	}

	var (
		lowest  *model.Listing
		highest *model.Listing
		sum     float64
		inStock int
	)

	for _, listing := range listings {
		summary.Listings = append(summary.Listings, model.ComparisonEntry{
			Platform:  listing.Platform,
			Price:     listing.Price,
			Currency:  listing.Currency,
			URL:       listing.URL,
			InStock:   listing.InStock,
			UpdatedAt: listing.UpdatedAt,
		})

		if !listing.InStock {
			continue
		}

		// Strict comparisons keep the first listing encountered on a price
		// tie, so the result is reproducible for the same stored order.
		if lowest == nil || listing.Price < lowest.Price {
			lowest = listing
		}
		if highest == nil || listing.Price > highest.Price {
			highest = listing
		}
		sum += listing.Price
		inStock++
	}

	if inStock > 0 {
		summary.LowestPrice = toQuote(lowest)
		summary.HighestPrice = toQuote(highest)
		avg := roundToCents(sum / float64(inStock))
		summary.AveragePrice = &avg
	}

	return summary
}

func toQuote(listing *model.Listing) *model.PriceQuote {
	return &model.PriceQuote{
		Platform: listing.Platform,
		Price:    listing.Price,
		Currency: listing.Currency,
		URL:      listing.URL,
		InStock:  listing.InStock,
	}
}

// roundToCents rounds half-up to 2 decimal places.
func roundToCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
