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

const productColumns = "id, name, description, category, brand, model, image_url, created_at, updated_at"

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.ID == uuid.Nil {
		product.InitMeta()
	}

	query := `INSERT INTO products (id, name, description, category, brand, model, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, product.ID, product.Name, product.Description,
		product.Category, product.Brand, product.Model, product.ImageURL,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	err = scanProduct(stmt.QueryRowContext(ctx, id), &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &result, nil
}

// Update applies a partial update to a product and returns the updated record.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(product)

	query := `UPDATE products SET name = $1, description = $2, category = $3, brand = $4,
	          model = $5, image_url = $6, updated_at = $7 WHERE id = $8`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, product.Name, product.Description, product.Category,
		product.Brand, product.Model, product.ImageURL, product.UpdatedAt, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteByID deletes a product by ID. Its listings are removed by the cascade
// on the listings foreign key.
func (r *ProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

// Search retrieves products matching the filter ordered newest-created first,
// along with the total count of matching rows.
func (r *ProductRepository) Search(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, int, error) {
	var where strings.Builder
	where.WriteString(" FROM products WHERE 1=1")

	var args []interface{}
	argIndex := 1

	if filter.Q != "" {
		where.WriteString(fmt.Sprintf(
			" AND (name ILIKE $%d OR description ILIKE $%d OR brand ILIKE $%d OR model ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Q+"%")
		argIndex++
	}
	if filter.Category != "" {
		where.WriteString(fmt.Sprintf(" AND category ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Category+"%")
		argIndex++
	}
	if filter.Brand != "" {
		where.WriteString(fmt.Sprintf(" AND brand ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Brand+"%")
		argIndex++
	}

	executor := r.getExecutor()

	total, err := countRows(ctx, executor, "SELECT COUNT(*)"+where.String(), args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page.Normalize()
	query := "SELECT " + productColumns + where.String() +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var product model.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner, product *model.Product) error {
	return row.Scan(&product.ID, &product.Name, &product.Description, &product.Category,
		&product.Brand, &product.Model, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
}

func countRows(ctx context.Context, executor dbExecutor, query string, args []interface{}) (int, error) {
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare count statement: %w", err)
	}
	defer stmt.Close()

	var total int
	if err := stmt.QueryRowContext(ctx, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to scan count: %w", err)
	}
	return total, nil
}
