package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is used when a listing is created without an explicit currency.
const DefaultCurrency = "TRY"

// Listing is a single platform's price and availability offer for a product.
// At most one listing may exist per (ProductID, Platform) pair.
type Listing struct {
	ID                uuid.UUID
	ProductID         uuid.UUID
	Platform          string
	PlatformProductID string
	Price             float64
	Currency          string
	URL               string
	InStock           bool
	Title             string
	Description       string
	UpdatedAt         time.Time
	CreatedAt         time.Time
}

// InitMeta initializes the listing metadata including ID, timestamps and defaults.
func (l *Listing) InitMeta() {
	l.ID = uuid.New()
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Currency == "" {
		l.Currency = DefaultCurrency
	}
}

// ListingPatch is a partial update of a listing. Nil fields are left untouched.
type ListingPatch struct {
	Platform          *string
	PlatformProductID *string
	Price             *float64
	Currency          *string
	URL               *string
	InStock           *bool
	Title             *string
	Description       *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ListingPatch) IsEmpty() bool {
	return p.Platform == nil && p.PlatformProductID == nil && p.Price == nil &&
		p.Currency == nil && p.URL == nil && p.InStock == nil &&
		p.Title == nil && p.Description == nil
}

// Apply merges the patch into the listing and bumps UpdatedAt.
func (p ListingPatch) Apply(listing *Listing) {
	if p.Platform != nil {
		listing.Platform = *p.Platform
	}
	if p.PlatformProductID != nil {
		listing.PlatformProductID = *p.PlatformProductID
	}
	if p.Price != nil {
		listing.Price = *p.Price
	}
	if p.Currency != nil {
		listing.Currency = *p.Currency
	}
	if p.URL != nil {
		listing.URL = *p.URL
	}
	if p.InStock != nil {
		listing.InStock = *p.InStock
	}
	if p.Title != nil {
		listing.Title = *p.Title
	}
	if p.Description != nil {
		listing.Description = *p.Description
	}
	listing.UpdatedAt = time.Now()
}
