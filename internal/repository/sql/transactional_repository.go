package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fiyatly/price-catalog/internal/repository"
)

// TransactionalRepository runs listing and catalog-event writes in a single
// database transaction, so an event row is never visible without its listing
// change and vice versa.
type TransactionalRepository struct {
	db *sql.DB
}

// NewTransactionalRepository creates a new TransactionalRepository.
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db}
}

// WithinTransaction begins a transaction, hands transactional listing and
// event repositories to fn, and commits if fn returns nil.
func (tr *TransactionalRepository) WithinTransaction(ctx context.Context, fn func(listings repository.ListingRepository, events repository.EventRepository) error) error {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	listingRepo := &ListingRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	if err := fn(listingRepo, eventRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
