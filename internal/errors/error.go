// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrStoreUnavailable = errors.New("product store unavailable")
	ErrInvalidProduct   = errors.New("invalid product")
)

// NotFoundError names the product ID that could not be found.
// It matches ErrProductNotFound with errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product with id %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
