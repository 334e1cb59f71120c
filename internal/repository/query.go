package repository

import "github.com/google/uuid"

// ProductFilter holds the search constraints for products. Q matches as a
// case-insensitive substring against name, description, brand and model;
// Category and Brand are case-insensitive substring filters combined with AND.
type ProductFilter struct {
	Q        string
	Category string
	Brand    string
	Page     Page
}

// ListingFilter holds the search constraints for listings. Platform matches as
// a case-insensitive substring, price bounds are inclusive, Currency is an
// exact match.
type ListingFilter struct {
	ProductID *uuid.UUID
	Platform  string
	InStock   *bool
	MinPrice  *float64
	MaxPrice  *float64
	Currency  string
	Page      Page
}
