package graphql

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/abgdnv/gocatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

const (
	endpointPath = "/api/graphql"
	schemaPath   = "/api/graphql/schema.graphql"
)

// Handler serves GraphQL requests over HTTP.
type Handler struct {
	schema      *graphqlgo.Schema
	querySchema *graphqlgo.Schema
	logger      *slog.Logger
}

// NewHandler creates a new GraphQL HTTP handler.
// POST requests run against schema, GET requests against the mutation-free querySchema.
func NewHandler(schema, querySchema *graphqlgo.Schema, logger *slog.Logger) *Handler {
	return &Handler{
		schema:      schema,
		querySchema: querySchema,
		logger:      logger.With("component", "graphql_http"),
	}
}

// RegisterRoutes registers the GraphQL endpoint and the schema document route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post(endpointPath, h.Serve)
	r.Get(endpointPath, h.ServeQuery)
	r.Get(schemaPath, h.Schema)
}

// request is the standard GraphQL-over-HTTP body, or the URL parameters of a GET.
type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Serve executes a single GraphQL document and writes {data, errors}.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var params request
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.logger.WarnContext(r.Context(), "GraphQL request body too large", "limit", maxBytesErr.Limit)
			h.respondRequestError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.logger.WarnContext(r.Context(), "Error decoding GraphQL request body", "error", err)
		h.respondRequestError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.execute(w, r, h.schema, params)
}

// ServeQuery executes a GraphQL document passed in the query, operationName
// and variables URL parameters. Mutations are rejected by the query schema.
func (h *Handler) ServeQuery(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	params := request{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}
	if raw := values.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params.Variables); err != nil {
			h.logger.WarnContext(r.Context(), "Error decoding GraphQL variables parameter", "error", err)
			h.respondRequestError(w, http.StatusBadRequest, "Invalid variables")
			return
		}
	}
	h.execute(w, r, h.querySchema, params)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, schema *graphqlgo.Schema, params request) {
	if strings.TrimSpace(params.Query) == "" {
		h.respondRequestError(w, http.StatusBadRequest, "Missing query")
		return
	}

	h.logger.DebugContext(r.Context(), "Executing GraphQL operation", "method", r.Method, "operationName", params.OperationName)
	response := schema.Exec(r.Context(), params.Query, params.OperationName, params.Variables)
	if len(response.Errors) > 0 {
		h.logger.DebugContext(r.Context(), "GraphQL operation returned errors", "count", len(response.Errors))
	}
	web.RespondJSON(w, h.logger, http.StatusOK, response)
}

// Schema writes the SDL document.
func (h *Handler) Schema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/graphql; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(SDL()))
}

func (h *Handler) respondRequestError(w http.ResponseWriter, status int, message string) {
	web.RespondJSON(w, h.logger, status, map[string]any{
		"errors": []map[string]string{{"message": message}},
	})
}
