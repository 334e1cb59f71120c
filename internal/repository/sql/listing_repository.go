package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/fiyatly/price-catalog/internal/repository"
	"github.com/google/uuid"
)

const listingColumns = "id, product_id, platform, platform_product_id, price, currency, url, in_stock, title, description, created_at, updated_at"

// ListingRepository implements repository.ListingRepository on PostgreSQL.
// The (product_id, platform) pair is guarded by a unique index so concurrent
// creates for the same pair cannot both succeed.
type ListingRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewListingRepository creates a new ListingRepository instance.
func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ListingRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Create inserts a new listing. A foreign key violation means the referenced
// product does not exist; a unique violation means the platform already has a
// listing for this product.
func (r *ListingRepository) Create(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	if listing.ID == uuid.Nil {
		listing.InitMeta()
	}

	query := `INSERT INTO listings (id, product_id, platform, platform_product_id, price, currency, url, in_stock, title, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, listing.ID, listing.ProductID, listing.Platform,
		listing.PlatformProductID, listing.Price, listing.Currency, listing.URL,
		listing.InStock, listing.Title, listing.Description, listing.CreatedAt, listing.UpdatedAt)
	if err != nil {
		if detail, ok := uniqueViolationDetail(err); ok {
			return nil, &repository.UniqueConstraintError{Detail: detail}
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("product %s: %w", listing.ProductID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}

	return listing, nil
}

// FindByID retrieves a single listing by ID.
func (r *ListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var result model.Listing
	err = scanListing(stmt.QueryRowContext(ctx, id), &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("listing %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}

	return &result, nil
}

// Update applies a partial update to a listing and returns the updated record.
// Changing the platform can still trip the unique index, which surfaces as a
// UniqueConstraintError.
func (r *ListingRepository) Update(ctx context.Context, id uuid.UUID, patch model.ListingPatch) (*model.Listing, error) {
	listing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(listing)

	query := `UPDATE listings SET platform = $1, platform_product_id = $2, price = $3,
	          currency = $4, url = $5, in_stock = $6, title = $7, description = $8,
	          updated_at = $9 WHERE id = $10`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, listing.Platform, listing.PlatformProductID, listing.Price,
		listing.Currency, listing.URL, listing.InStock, listing.Title, listing.Description,
		listing.UpdatedAt, listing.ID)
	if err != nil {
		if detail, ok := uniqueViolationDetail(err); ok {
			return nil, &repository.UniqueConstraintError{Detail: detail}
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return listing, nil
}

// DeleteByID deletes a listing by ID.
func (r *ListingRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM listings WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("listing %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

// Search retrieves listings matching the filter ordered most-recently-updated
// first, along with the total count of matching rows.
func (r *ListingRepository) Search(ctx context.Context, filter repository.ListingFilter) ([]*model.Listing, int, error) {
	var where strings.Builder
	where.WriteString(" FROM listings WHERE 1=1")

	var args []interface{}
	argIndex := 1

	if filter.ProductID != nil {
		where.WriteString(fmt.Sprintf(" AND product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}
	if filter.Platform != "" {
		where.WriteString(fmt.Sprintf(" AND platform ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Platform+"%")
		argIndex++
	}
	if filter.InStock != nil {
		where.WriteString(fmt.Sprintf(" AND in_stock = $%d", argIndex))
		args = append(args, *filter.InStock)
		argIndex++
	}
	if filter.MinPrice != nil {
		where.WriteString(fmt.Sprintf(" AND price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}
	if filter.MaxPrice != nil {
		where.WriteString(fmt.Sprintf(" AND price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}
	if filter.Currency != "" {
		where.WriteString(fmt.Sprintf(" AND currency = $%d", argIndex))
		args = append(args, filter.Currency)
		argIndex++
	}

	executor := r.getExecutor()

	total, err := countRows(ctx, executor, "SELECT COUNT(*)"+where.String(), args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	page := filter.Page.Normalize()
	query := "SELECT " + listingColumns + where.String() +
		fmt.Sprintf(" ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// ListByProduct retrieves every listing of a product ordered ascending by
// price, the shape the price comparison works on. Ties keep insertion order
// via the created_at secondary key, which keeps comparison results
// reproducible.
func (r *ListingRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE product_id = $1 ORDER BY price ASC, created_at ASC, id ASC`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]*model.Listing, error) {
	var listings []*model.Listing
	for rows.Next() {
		var listing model.Listing
		if err := scanListing(rows, &listing); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, &listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return listings, nil
}

func scanListing(row rowScanner, listing *model.Listing) error {
	return row.Scan(&listing.ID, &listing.ProductID, &listing.Platform, &listing.PlatformProductID,
		&listing.Price, &listing.Currency, &listing.URL, &listing.InStock, &listing.Title,
		&listing.Description, &listing.CreatedAt, &listing.UpdatedAt)
}
