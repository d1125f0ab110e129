// Package store provides the persistence boundary for the product collection.
package store

import (
	"context"
	"fmt"

	perrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Product is a single catalog entry. JSON keys match the persisted document layout.
// A "brand": null in the file loads as nil and is written back without the key.
type Product struct {
	ID       string  `json:"id"       validate:"required"`
	Name     string  `json:"name"     validate:"required"`
	Price    float64 `json:"price"    validate:"min=0"`
	Category string  `json:"category"`
	InStock  bool    `json:"inStock"`
	Brand    *string `json:"brand,omitempty"`
}

// Validate checks a single entry before it is written. Returns an error matching ErrInvalidProduct.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: product %q: %w", perrors.ErrInvalidProduct, p.ID, err)
	}
	return nil
}

// ProductStore reads and writes the whole product collection at once.
// There is no per-record access: callers load the full sequence, work on it, and save it back.
type ProductStore interface {
	// Load returns the stored collection in storage order.
	// A missing collection is empty, never an error.
	Load(ctx context.Context) ([]Product, error)

	// Save replaces the stored collection with products.
	// Entries are written as given; callers validate what they changed.
	Save(ctx context.Context, products []Product) error

	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}
