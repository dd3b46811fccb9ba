// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	// ErrInvalidProduct wraps validator.ValidationErrors when field values are rejected.
	ErrInvalidProduct = errors.New("invalid product")
)
