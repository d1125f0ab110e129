package graphql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/service"
	"github.com/abgdnv/gocatalog/internal/store"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for the Query and Mutation types.
type Resolver struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewResolver creates the root resolver.
func NewResolver(svc service.ProductService, logger *slog.Logger) *Resolver {
	return &Resolver{
		service: svc,
		logger:  logger.With("component", "graphql"),
	}
}

// Products resolves Query.products.
func (r *Resolver) Products(ctx context.Context, args struct{ InStock *bool }) ([]*ProductResolver, error) {
	products, err := r.service.Products(ctx, args.InStock)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error retrieving product list", "error", err)
		return nil, r.toGraphQLError(err, "failed to fetch products")
	}
	resolvers := make([]*ProductResolver, len(products))
	for i := range products {
		resolvers[i] = &ProductResolver{p: products[i]}
	}
	return resolvers, nil
}

// Product resolves Query.product. A missing product resolves to null.
func (r *Resolver) Product(ctx context.Context, args struct{ ID graphqlgo.ID }) (*ProductResolver, error) {
	id := string(args.ID)
	found, err := r.service.Product(ctx, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error retrieving product", "ID", id, "error", err)
		return nil, r.toGraphQLError(err, fmt.Sprintf("failed to retrieve product %s", id))
	}
	if found == nil {
		return nil, nil
	}
	return &ProductResolver{p: *found}, nil
}

// ToggleProductStock resolves Mutation.toggleProductStock.
func (r *Resolver) ToggleProductStock(ctx context.Context, args struct{ ID graphqlgo.ID }) (*ProductResolver, error) {
	id := string(args.ID)
	updated, err := r.service.ToggleStock(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			r.logger.WarnContext(ctx, "Product not found for stock toggle", "ID", id)
		} else {
			r.logger.ErrorContext(ctx, "Error toggling product stock", "ID", id, "error", err)
		}
		return nil, r.toGraphQLError(err, fmt.Sprintf("failed to toggle stock for product %s", id))
	}
	return &ProductResolver{p: *updated}, nil
}

// ProductResolver resolves the fields of the Product type.
type ProductResolver struct {
	p store.Product
}

func (r *ProductResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.p.ID) }
func (r *ProductResolver) Name() string     { return r.p.Name }
func (r *ProductResolver) Price() float64   { return r.p.Price }
func (r *ProductResolver) Category() string { return r.p.Category }
func (r *ProductResolver) InStock() bool    { return r.p.InStock }
func (r *ProductResolver) Brand() *string   { return r.p.Brand }

const (
	codeNotFound         = "NOT_FOUND"
	codeStoreUnavailable = "STORE_UNAVAILABLE"
	codeInternal         = "INTERNAL"
)

// resolverError is returned to graphql-go, which copies Extensions into the response.
type resolverError struct {
	message    string
	extensions map[string]interface{}
}

func (e *resolverError) Error() string                       { return e.message }
func (e *resolverError) Extensions() map[string]interface{} { return e.extensions }

// toGraphQLError maps service errors onto client-facing errors. Internal details stay in the logs.
func (r *Resolver) toGraphQLError(err error, fallback string) error {
	var nf *perrors.NotFoundError
	switch {
	case errors.As(err, &nf):
		return &resolverError{
			message:    nf.Error(),
			extensions: map[string]interface{}{"code": codeNotFound, "id": nf.ID},
		}
	case errors.Is(err, perrors.ErrStoreUnavailable):
		return &resolverError{
			message:    perrors.ErrStoreUnavailable.Error(),
			extensions: map[string]interface{}{"code": codeStoreUnavailable},
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &resolverError{
			message:    fallback,
			extensions: map[string]interface{}{"code": codeInternal},
		}
	}
}
