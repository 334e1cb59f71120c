package repository

import (
	"context"
	"errors"

	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("resource not found")

// ValidationError represents malformed or missing required input.
type ValidationError struct {
	Msg string
}

func (v *ValidationError) Error() string {
	return v.Msg
}

// NewValidationError creates a ValidationError with the provided message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// UniqueConstraintError represents a database unique constraint violation error.
type UniqueConstraintError struct {
	Detail string
}

func (u *UniqueConstraintError) Error() string {
	return "resource must be unique: " + u.Detail
}

// ProductRepository manages product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter ProductFilter) (result []*model.Product, total int, err error)
}

// ListingRepository manages listing persistence. Create must enforce the
// (product_id, platform) uniqueness atomically in the storage layer.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) (*model.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ListingPatch) (*model.Listing, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter ListingFilter) (result []*model.Listing, total int, err error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Listing, error)
}

// EventRepository manages catalog events for the outbox pattern.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	ListPending(ctx context.Context, limit int) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}

// TransactionalRepository runs listing and event writes in a single transaction.
type TransactionalRepository interface {
	WithinTransaction(ctx context.Context, fn func(listings ListingRepository, events EventRepository) error) error
}
