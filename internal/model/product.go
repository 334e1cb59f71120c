package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product that listings on external platforms refer to.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Brand       string
	Model       string
	ImageURL    string
	UpdatedAt   time.Time
	CreatedAt   time.Time
}

// InitMeta initializes the product metadata including ID and timestamps.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// ProductPatch is a partial update of a product. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Brand       *string
	Model       *string
	ImageURL    *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Brand == nil && p.Model == nil && p.ImageURL == nil
}

// Apply merges the patch into the product and bumps UpdatedAt.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Brand != nil {
		product.Brand = *p.Brand
	}
	if p.Model != nil {
		product.Model = *p.Model
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	product.UpdatedAt = time.Now()
}
