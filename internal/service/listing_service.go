package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fiyatly/price-catalog/internal/metrics"
	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/fiyatly/price-catalog/internal/repository"
	"github.com/fiyatly/price-catalog/internal/sqs"
	"github.com/google/uuid"
)

// ListingService implements the listing operations. Every write goes through
// the transactional repository so the catalog event lands in the outbox
// together with the listing change.
type ListingService struct {
	products repository.ProductRepository
	listings repository.ListingRepository
	txn      repository.TransactionalRepository
}

// NewListingService creates a new ListingService.
func NewListingService(products repository.ProductRepository, listings repository.ListingRepository, txn repository.TransactionalRepository) *ListingService {
	return &ListingService{
		products: products,
		listings: listings,
		txn:      txn,
	}
}

// CreateListingInput carries the fields accepted when creating a listing.
// Currency defaults to TRY and InStock to true when not supplied.
type CreateListingInput struct {
	ProductID         uuid.UUID
	Platform          string
	PlatformProductID string
	Price             float64
	Currency          string
	URL               string
	InStock           *bool
	Title             string
	Description       string
}

// CreateListing validates the input and persists a new listing plus its
// catalog event in one transaction. Uniqueness of (product, platform) is
// enforced by the storage layer, not by a check here.
func (ls *ListingService) CreateListing(ctx context.Context, input CreateListingInput) (*model.Listing, error) {
	platform := strings.TrimSpace(input.Platform)
	if platform == "" {
		return nil, repository.NewValidationError("platform must not be empty")
	}
	if input.Price < 0 {
		return nil, repository.NewValidationError("price must not be negative")
	}

	listing := &model.Listing{
		ProductID:         input.ProductID,
		Platform:          platform,
		PlatformProductID: input.PlatformProductID,
		Price:             input.Price,
		Currency:          input.Currency,
		URL:               input.URL,
		InStock:           true,
		Title:             input.Title,
		Description:       input.Description,
	}
	if input.InStock != nil {
		listing.InStock = *input.InStock
	}

	err := ls.txn.WithinTransaction(ctx, func(listings repository.ListingRepository, events repository.EventRepository) error {
		created, err := listings.Create(ctx, listing)
		if err != nil {
			return err
		}
		listing = created
		return recordListingEvent(ctx, events, model.EventTypeListingCreated, "created", listing)
	})
	if err != nil {
		return nil, err
	}

	metrics.ListingsCreated.Inc()

	return listing, nil
}

// GetListing fetches a single listing by ID.
func (ls *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	return ls.listings.FindByID(ctx, id)
}

// UpdateListing applies a partial update and records the change event in the
// same transaction. The patch must carry at least one field.
func (ls *ListingService) UpdateListing(ctx context.Context, id uuid.UUID, patch model.ListingPatch) (*model.Listing, error) {
	if patch.IsEmpty() {
		return nil, repository.NewValidationError("at least one field must be supplied")
	}
	if patch.Platform != nil {
		platform := strings.TrimSpace(*patch.Platform)
		if platform == "" {
			return nil, repository.NewValidationError("platform must not be empty")
		}
		patch.Platform = &platform
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, repository.NewValidationError("price must not be negative")
	}

	var updated *model.Listing
	err := ls.txn.WithinTransaction(ctx, func(listings repository.ListingRepository, events repository.EventRepository) error {
		listing, err := listings.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		updated = listing
		return recordListingEvent(ctx, events, model.EventTypeListingUpdated, "updated", listing)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteListing removes a listing and records the deletion event in the same
// transaction.
func (ls *ListingService) DeleteListing(ctx context.Context, id uuid.UUID) error {
	err := ls.txn.WithinTransaction(ctx, func(listings repository.ListingRepository, events repository.EventRepository) error {
		listing, err := listings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := listings.DeleteByID(ctx, id); err != nil {
			return err
		}
		return recordListingEvent(ctx, events, model.EventTypeListingDeleted, "deleted", listing)
	})
	if err != nil {
		return err
	}

	metrics.ListingsDeleted.Inc()

	return nil
}

// SearchListings returns the matching listings and the total match count.
func (ls *ListingService) SearchListings(ctx context.Context, filter repository.ListingFilter) ([]*model.Listing, int, error) {
	filter.Page = filter.Page.Normalize()
	return ls.listings.Search(ctx, filter)
}

// GetListingsByProduct returns a product's listings as a search filtered to
// that product with the default paging, most recently updated first. An
// unknown product yields an empty result, not an error.
func (ls *ListingService) GetListingsByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Listing, int, error) {
	filter := repository.ListingFilter{ProductID: &productID}
	filter.Page = filter.Page.Normalize()
	return ls.listings.Search(ctx, filter)
}

func recordListingEvent(ctx context.Context, events repository.EventRepository, eventType, action string, listing *model.Listing) error {
	msg := sqs.ListingMessage{
		Action:    action,
		ListingID: listing.ID.String(),
		ProductID: listing.ProductID.String(),
		Platform:  listing.Platform,
		Price:     listing.Price,
		Currency:  listing.Currency,
		InStock:   listing.InStock,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	_, err = events.Create(ctx, &model.Event{
		EventType: eventType,
		EventData: data,
	})
	return err
}
