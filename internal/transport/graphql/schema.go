// Package graphql exposes the product catalog as a GraphQL API.
package graphql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abgdnv/gocatalog/internal/service"
	graphqlgo "github.com/graph-gophers/graphql-go"
	gqlotel "github.com/graph-gophers/graphql-go/trace/otel"
)

//go:embed schema.graphql
var schemaSDL string

// maxQueryDepth bounds nesting; the schema itself is two levels deep.
const maxQueryDepth = 8

// SDL returns the schema document that client code generation consumes.
func SDL() string {
	return schemaSDL
}

// querySDL is the schema document without the Mutation type.
func querySDL() string {
	start := strings.Index(schemaSDL, "type Mutation")
	if start < 0 {
		return schemaSDL
	}
	end := strings.Index(schemaSDL[start:], "}")
	return schemaSDL[:start] + schemaSDL[start+end+1:]
}

// NewSchema parses the catalog schema and binds it to the product service.
func NewSchema(svc service.ProductService, logger *slog.Logger) (*graphqlgo.Schema, error) {
	return parseSchema(schemaSDL, svc, logger)
}

// NewQuerySchema parses the catalog schema without mutations.
// Operations sent over GET run against it, so a mutation there fails validation.
func NewQuerySchema(svc service.ProductService, logger *slog.Logger) (*graphqlgo.Schema, error) {
	return parseSchema(querySDL(), svc, logger)
}

func parseSchema(sdl string, svc service.ProductService, logger *slog.Logger) (*graphqlgo.Schema, error) {
	schema, err := graphqlgo.ParseSchema(sdl, NewResolver(svc, logger),
		graphqlgo.MaxDepth(maxQueryDepth),
		graphqlgo.Tracer(gqlotel.DefaultTracer()),
		graphqlgo.Logger(panicLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return schema, nil
}

// panicLogger routes resolver panics recovered by graphql-go into slog.
type panicLogger struct {
	logger *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.ErrorContext(ctx, "Panic recovered in GraphQL resolver", "panic", value)
}
