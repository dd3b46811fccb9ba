package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/inventario/inventario/product_service/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, active, name, price, stock, brand, created_at, updated_at, deleted_at`

const (
	findAllQuery = `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL ORDER BY id`

	findByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`

	findAllByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY id`

	existsByIDQuery = `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`

	// saveQuery revives a tombstoned row and refuses to touch a live one.
	saveQuery = `INSERT INTO products (id, active, name, price, stock, brand)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
    SET active     = EXCLUDED.active,
        name       = EXCLUDED.name,
        price      = EXCLUDED.price,
        stock      = EXCLUDED.stock,
        brand      = EXCLUDED.brand,
        created_at = NOW(),
        updated_at = NOW(),
        deleted_at = NULL
    WHERE products.deleted_at IS NOT NULL
RETURNING ` + productColumns

	updateQuery = `UPDATE products
SET active = $2, name = $3, price = $4, stock = $5, brand = $6, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + productColumns

	deleteQuery = `UPDATE products SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves all live products ordered by id.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	rows, err := p.db.Query(ctx, findByIDQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// FindAllByID retrieves the live products among ids.
func (p *PgStore) FindAllByID(ctx context.Context, ids []int64) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllByIDQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by IDs: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

func (p *PgStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := p.db.QueryRow(ctx, existsByIDQuery, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// Save inserts a new product. A conflicting live row yields no returned row.
func (p *PgStore) Save(ctx context.Context, product Product) (*Product, error) {
	rows, err := p.db.Query(ctx, saveQuery,
		product.ID, product.Active, product.Name, product.Price, product.Stock, product.Brand)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	saved, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &saved, nil
}

// Update modifies an existing product's details.
// Returns ErrProductNotFound if no live product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, product Product) (*Product, error) {
	rows, err := p.db.Query(ctx, updateQuery,
		id, product.Active, product.Name, product.Price, product.Stock, product.Brand)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	updated, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

// DeleteByID soft deletes a product by its unique identifier.
// Returns ErrProductNotFound if no live product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func scanProduct(row pgx.CollectableRow) (Product, error) {
	var product Product
	err := row.Scan(
		&product.ID,
		&product.Active,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.Brand,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.DeletedAt,
	)
	return product, err
}
