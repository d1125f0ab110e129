// Package app contains the application setup for the catalog service.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/gocatalog/internal/config"
	"github.com/abgdnv/gocatalog/internal/service"
	"github.com/abgdnv/gocatalog/internal/store"
	"github.com/abgdnv/gocatalog/internal/transport/graphql"
	grpcImpl "github.com/abgdnv/gocatalog/internal/transport/grpc"
	"github.com/abgdnv/gocatalog/internal/transport/rest"
	"github.com/abgdnv/gocatalog/pkg/messaging"
	"github.com/abgdnv/gocatalog/pkg/server"
	"github.com/go-chi/chi/v5"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Store          store.ProductStore
	Schema         *graphqlgo.Schema
	QuerySchema    *graphqlgo.Schema
	Health         *grpcImpl.HealthServer
	// MetricsHandler is mounted on the HTTP router when set.
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// SetupDependencies builds the service graph on top of the given store and event publisher.
func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) (*Dependencies, error) {
	pService := service.NewService(productStore, publisher, logger)
	schema, err := graphql.NewSchema(pService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	querySchema, err := graphql.NewQuerySchema(pService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL query schema: %w", err)
	}

	return &Dependencies{
		ProductService: pService,
		Store:          productStore,
		Schema:         schema,
		QuerySchema:    querySchema,
		Health:         grpcImpl.NewHealthServer(productStore, logger),
		Logger:         logger,
	}, nil
}

// SetupHttpHandler builds the router with the GraphQL endpoint, the REST view and, if present, metrics.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, maxBodyBytes int64, metricsPath string) http.Handler {
	mux := server.NewChiRouter(deps.Logger, maxBodyBytes)
	wireRoutes(mux, deps, metricsPath)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies, metricsPath string) {
	graphql.NewHandler(deps.Schema, deps.QuerySchema, deps.Logger).RegisterRoutes(mux)
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Handle(metricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg.HTTPServer.MaxBodyBytes, cfg.Metrics.Path)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, "catalog-http", mux)
}

// SetupGrpcServer initializes the gRPC server, which carries the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, deps.Health.Register)
}
