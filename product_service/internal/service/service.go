// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/inventario/inventario/pkg/messaging"
	"github.com/inventario/inventario/pkg/messaging/events"
	perrors "github.com/inventario/inventario/product_service/internal/errors"
	"github.com/inventario/inventario/product_service/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/inventario/inventario/product_service/internal/service"

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all available products ordered by id.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAllByID returns the products found among ids. Missing ids are skipped.
	FindAllByID(ctx context.Context, ids []int64) ([]ProductDto, error)

	// ExistsByID reports whether a product with the given id exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save creates a product under the id carried by the DTO.
	// Returns ErrInvalidProduct on rejected fields and ErrProductExists when the id is taken.
	Save(ctx context.Context, product ProductDto) (*ProductDto, error)

	// Update replaces the fields of the product with the given id. The DTO id is ignored.
	// Returns ErrInvalidProduct on rejected fields and ErrProductNotFound when the id is absent.
	Update(ctx context.Context, id int64, product ProductDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID     int64  `json:"id"     validate:"gte=1"`
	Active bool   `json:"active"`
	Name   string `json:"name"   validate:"required,max=100"`
	Price  int64  `json:"price"  validate:"gte=0"`
	Stock  int32  `json:"stock"  validate:"gte=0"`
	Brand  string `json:"brand"  validate:"max=100"`
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	validate   *validator.Validate
	logger     *slog.Logger

	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

// NewValidator returns the validator used for product DTOs. Field errors carry the json name of the field.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewService creates a new instance of ProductService with the provided repository.
// Events are sent through publisher after every successful mutation.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter(meterName)
	s := &Service{
		repository: repo,
		publisher:  publisher,
		validate:   NewValidator(),
		logger:     logger.With("component", "service"),
	}
	s.created = newCounter(meter, "products_created", "Number of products created", s.logger)
	s.updated = newCounter(meter, "products_updated", "Number of products updated", s.logger)
	s.deleted = newCounter(meter, "products_deleted", "Number of products deleted", s.logger)
	return s
}

func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

func (s *Service) FindAllByID(ctx context.Context, ids []int64) ([]ProductDto, error) {
	products, err := s.repository.FindAllByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by IDs: %w", err)
	}
	return toDtos(products), nil
}

func (s *Service) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repository.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check product with ID %d: %w", id, err)
	}
	return exists, nil
}

func (s *Service) Save(ctx context.Context, product ProductDto) (*ProductDto, error) {
	if err := s.validateDto(product); err != nil {
		return nil, err
	}
	saved, err := s.repository.Save(ctx, toModel(product))
	if err != nil {
		return nil, fmt.Errorf("failed to create product with ID %d: %w", product.ID, err)
	}
	s.created.Add(ctx, 1)
	s.publish(ctx, events.NewProductEvent(saved.ID, events.ActionCreated))
	return toDto(saved), nil
}

func (s *Service) Update(ctx context.Context, id int64, product ProductDto) (*ProductDto, error) {
	product.ID = id
	if err := s.validateDto(product); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, toModel(product))
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.updated.Add(ctx, 1)
	s.publish(ctx, events.NewProductEvent(id, events.ActionUpdated))
	return toDto(updated), nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.deleted.Add(ctx, 1)
	s.publish(ctx, events.NewProductEvent(id, events.ActionDeleted))
	return nil
}

// validateDto returns ErrInvalidProduct joined with the validator errors so callers can use errors.As on them.
func (s *Service) validateDto(product ProductDto) error {
	if err := s.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %w", perrors.ErrInvalidProduct, validationErrors)
		}
		return fmt.Errorf("%w: %w", perrors.ErrInvalidProduct, err)
	}
	return nil
}

// publish sends the event and only logs a failure. The change is already stored.
func (s *Service) publish(ctx context.Context, event events.ProductEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish product event",
			"subject", event.Subject(), "productID", event.ProductID, "error", err)
	}
}

func newCounter(meter metric.Meter, name, description string, logger *slog.Logger) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Warn("failed to create counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return counter
}

func toModel(dto ProductDto) store.Product {
	return store.Product{
		ID:     dto.ID,
		Active: dto.Active,
		Name:   dto.Name,
		Price:  dto.Price,
		Stock:  dto.Stock,
		Brand:  dto.Brand,
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:     product.ID,
		Active: product.Active,
		Name:   product.Name,
		Price:  product.Price,
		Stock:  product.Stock,
		Brand:  product.Brand,
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}
