// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	perrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/store"
	"github.com/abgdnv/gocatalog/pkg/messaging"
	"github.com/abgdnv/gocatalog/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultPublishTimeout = 5 * time.Second

// ProductService defines the operations the catalog API exposes.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Products returns the catalog in storage order.
	// When inStock is non-nil only products with a matching stock flag are returned.
	// Returns an empty slice if nothing matches.
	Products(ctx context.Context, inStock *bool) ([]store.Product, error)

	// Product returns the product with the given ID, or nil if there is none.
	Product(ctx context.Context, id string) (*store.Product, error)

	// ToggleStock flips the stock flag of a product and persists the collection.
	// Returns a *NotFoundError (matching ErrProductNotFound) if no product has the given ID.
	ToggleStock(ctx context.Context, id string) (*store.Product, error)
}

// Service implements ProductService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	logger     *slog.Logger
	now        func() time.Time

	// publishTimeout bounds each event publish.
	publishTimeout time.Duration

	// writeMu serializes read-modify-write cycles so concurrent toggles never drop an update.
	writeMu sync.Mutex

	togglesCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("catalog-service")
	togglesCounter, err := meter.Int64Counter("product_stock_toggles", metric.WithDescription("Total number of product stock toggles"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_stock_toggles counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		repository:     repo,
		publisher:      publisher,
		logger:         logger.With("component", "service"),
		now:            time.Now,
		publishTimeout: defaultPublishTimeout,
		togglesCounter: togglesCounter,
	}
}

// Products loads the catalog and applies the optional stock filter.
func (s *Service) Products(ctx context.Context, inStock *bool) ([]store.Product, error) {
	products, err := s.repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if inStock == nil {
		return products, nil
	}

	filtered := make([]store.Product, 0, len(products))
	for _, p := range products {
		if p.InStock == *inStock {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Product loads the catalog and returns the first product with a matching ID.
func (s *Service) Product(ctx context.Context, id string) (*store.Product, error) {
	products, err := s.repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	idx := indexOf(products, id)
	if idx < 0 {
		return nil, nil
	}
	return &products[idx], nil
}

// ToggleStock flips the product's stock flag, saves the full collection and
// publishes a ProductStockToggledEvent. An unknown ID performs no write.
// The event is published after writeMu is released, so a slow broker never holds up other toggles.
func (s *Service) ToggleStock(ctx context.Context, id string) (*store.Product, error) {
	updated, err := s.toggle(ctx, id)
	if err != nil {
		return nil, err
	}

	s.togglesCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("in_stock", updated.InStock)))
	s.logger.InfoContext(ctx, "Product stock toggled", "ID", updated.ID, "inStock", updated.InStock)

	event := events.ProductStockToggledEvent{
		ProductID: updated.ID,
		InStock:   updated.InStock,
		ToggledAt: s.now().UTC(),
	}
	// the write already happened, so the publish outlives a cancelled request but not the timeout
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(publishCtx, event); err != nil {
		// the toggle is already persisted, so a lost event must not fail the mutation
		s.logger.WarnContext(ctx, "Failed to publish stock toggled event", "ID", updated.ID, "error", err)
	}

	return &updated, nil
}

// toggle is the read-modify-write critical section of ToggleStock.
// Only the toggled entry is validated; other records are written back untouched.
func (s *Service) toggle(ctx context.Context, id string) (store.Product, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	products, err := s.repository.Load(ctx)
	if err != nil {
		return store.Product{}, fmt.Errorf("failed to load products for stock toggle of %s: %w", id, err)
	}
	idx := indexOf(products, id)
	if idx < 0 {
		return store.Product{}, &perrors.NotFoundError{ID: id}
	}

	products[idx].InStock = !products[idx].InStock
	if err := products[idx].Validate(); err != nil {
		return store.Product{}, fmt.Errorf("refusing stock toggle of %s: %w", id, err)
	}
	if err := s.repository.Save(ctx, products); err != nil {
		return store.Product{}, fmt.Errorf("failed to persist stock toggle of %s: %w", id, err)
	}
	return products[idx], nil
}

func indexOf(products []store.Product, id string) int {
	return slices.IndexFunc(products, func(p store.Product) bool {
		return p.ID == id
	})
}
