// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// Product is the persisted form of a product.
// DeletedAt is set once the product is soft deleted; such rows are invisible to every read.
type Product struct {
	ID        int64      `dynamodbav:"id"`
	Active    bool       `dynamodbav:"active"`
	Name      string     `dynamodbav:"name"`
	Price     int64      `dynamodbav:"price"`
	Stock     int32      `dynamodbav:"stock"`
	Brand     string     `dynamodbav:"brand"`
	CreatedAt time.Time  `dynamodbav:"created_at"`
	UpdatedAt time.Time  `dynamodbav:"updated_at"`
	DeletedAt *time.Time `dynamodbav:"deleted_at,omitempty"`
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Implementations enforce the existence invariants atomically and report them with sentinel errors.
type ProductStore interface {
	// FindAll returns all live products ordered by id.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAllByID returns the live products among ids ordered by id. Missing ids are skipped.
	FindAllByID(ctx context.Context, ids []int64) ([]Product, error)

	// ExistsByID reports whether a live product with the given id exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save stores a new product under its caller-assigned id.
	// Returns ErrProductExists if a live product already uses the id. A soft deleted id is reused.
	Save(ctx context.Context, product Product) (*Product, error)

	// Update replaces the fields of the product with the given id.
	// Returns ErrProductNotFound if no live product exists with the given ID.
	Update(ctx context.Context, id int64, product Product) (*Product, error)

	// DeleteByID soft deletes a product by its ID.
	// Returns ErrProductNotFound if no live product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
