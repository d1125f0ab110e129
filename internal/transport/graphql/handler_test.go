package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	perrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/store"
	"github.com/abgdnv/gocatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Products(ctx context.Context, inStock *bool) ([]store.Product, error) {
	args := m.Called(ctx, inStock)
	var products []store.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]store.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductService) Product(ctx context.Context, id string) (*store.Product, error) {
	args := m.Called(ctx, id)
	var product *store.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*store.Product)
	}
	return product, args.Error(1)
}

func (m *MockProductService) ToggleStock(ctx context.Context, id string) (*store.Product, error) {
	args := m.Called(ctx, id)
	var product *store.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*store.Product)
	}
	return product, args.Error(1)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type gqlError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path"`
	Extensions map[string]any `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func newTestRouter(t *testing.T, svc *MockProductService) http.Handler {
	t.Helper()
	schema, err := NewSchema(svc, testLogger)
	require.NoError(t, err)
	querySchema, err := NewQuerySchema(svc, testLogger)
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Use(web.BodyLimit(1 << 10))
	NewHandler(schema, querySchema, testLogger).RegisterRoutes(r)
	return r
}

func post(t *testing.T, h http.Handler, query string, variables map[string]any) (*httptest.ResponseRecorder, gqlResponse) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, endpointPath, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr, resp
}

func ptr[T any](v T) *T { return &v }

const productsQuery = `query Products($inStock: Boolean) {
  products(inStock: $inStock) { id name price category inStock brand }
}`

func TestHandler_Products(t *testing.T) {
	testCases := []struct {
		name         string
		variables    map[string]any
		filter       *bool
		products     []store.Product
		expectedData string
	}{
		{
			name:   "no filter",
			filter: nil,
			products: []store.Product{
				{ID: "1", Name: "Widget", Price: 9.99, Category: "Tools", InStock: true},
				{ID: "2", Name: "Gadget", Price: 24.5, Category: "Electronics", InStock: false, Brand: ptr("Acme")},
			},
			expectedData: `{"products":[
				{"id":"1","name":"Widget","price":9.99,"category":"Tools","inStock":true,"brand":null},
				{"id":"2","name":"Gadget","price":24.5,"category":"Electronics","inStock":false,"brand":"Acme"}]}`,
		},
		{
			name:         "filtered to out of stock, none match",
			variables:    map[string]any{"inStock": false},
			filter:       ptr(false),
			products:     []store.Product{},
			expectedData: `{"products":[]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			svc.On("Products", mock.Anything, tc.filter).Return(tc.products, nil).Once()
			h := newTestRouter(t, svc)

			// when
			rr, resp := post(t, h, productsQuery, tc.variables)

			// then
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Empty(t, resp.Errors)
			assert.JSONEq(t, tc.expectedData, string(resp.Data))
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Products_StoreUnavailable(t *testing.T) {
	svc := new(MockProductService)
	svc.On("Products", mock.Anything, (*bool)(nil)).
		Return(nil, fmt.Errorf("failed to load products: %w", perrors.ErrStoreUnavailable))
	h := newTestRouter(t, svc)

	rr, resp := post(t, h, `{ products { id } }`, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "product store unavailable", resp.Errors[0].Message)
	assert.Equal(t, "STORE_UNAVAILABLE", resp.Errors[0].Extensions["code"])
}

func TestHandler_Product(t *testing.T) {
	testCases := []struct {
		name         string
		found        *store.Product
		err          error
		expectedData string
		expectedErr  string
	}{
		{
			name:         "found",
			found:        &store.Product{ID: "7", Name: "Sprocket", Price: 1.5, Category: "Parts", InStock: true},
			expectedData: `{"product":{"id":"7","name":"Sprocket","inStock":true}}`,
		},
		{
			name:         "absent is null",
			found:        nil,
			expectedData: `{"product":null}`,
		},
		{
			name:         "internal error is masked",
			err:          errors.New("open /data/products.json: permission denied"),
			expectedData: `{"product":null}`,
			expectedErr:  "failed to retrieve product 7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			svc.On("Product", mock.Anything, "7").Return(tc.found, tc.err).Once()
			h := newTestRouter(t, svc)

			// when
			_, resp := post(t, h, `query($id: ID!) { product(id: $id) { id name inStock } }`, map[string]any{"id": "7"})

			// then
			assert.JSONEq(t, tc.expectedData, string(resp.Data))
			if tc.expectedErr == "" {
				assert.Empty(t, resp.Errors)
				return
			}
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tc.expectedErr, resp.Errors[0].Message)
			assert.Equal(t, "INTERNAL", resp.Errors[0].Extensions["code"])
		})
	}
}

func TestHandler_ToggleProductStock(t *testing.T) {
	// given
	svc := new(MockProductService)
	svc.On("ToggleStock", mock.Anything, "1").
		Return(&store.Product{ID: "1", Name: "Widget", Price: 9.99, Category: "Tools", InStock: false}, nil).Once()
	h := newTestRouter(t, svc)

	// when
	_, resp := post(t, h, `mutation { toggleProductStock(id: "1") { id inStock } }`, nil)

	// then
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"toggleProductStock":{"id":"1","inStock":false}}`, string(resp.Data))
	svc.AssertExpectations(t)
}

func TestHandler_ToggleProductStock_NotFound(t *testing.T) {
	// given
	svc := new(MockProductService)
	svc.On("ToggleStock", mock.Anything, "404").
		Return(nil, fmt.Errorf("toggle: %w", &perrors.NotFoundError{ID: "404"})).Once()
	h := newTestRouter(t, svc)

	// when
	rr, resp := post(t, h, `mutation($id: ID!) { toggleProductStock(id: $id) { id } }`, map[string]any{"id": "404"})

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, []string{"", "null"}, string(resp.Data))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Product with id 404 not found", resp.Errors[0].Message)
	assert.Equal(t, []any{"toggleProductStock"}, resp.Errors[0].Path)
	assert.Equal(t, map[string]any{"code": "NOT_FOUND", "id": "404"}, resp.Errors[0].Extensions)
}

func TestHandler_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{name: "unknown field", query: `{ products { sku } }`},
		{name: "missing required argument", query: `{ product { id } }`},
		{name: "syntax error", query: `{ products { id }`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := newTestRouter(t, svc)

			rr, resp := post(t, h, tc.query, nil)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.NotEmpty(t, resp.Errors)
			svc.AssertNotCalled(t, "Products", mock.Anything, mock.Anything)
			svc.AssertNotCalled(t, "Product", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "invalid json",
			body:         `{"query":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errors":[{"message":"Invalid request body"}]}`,
		},
		{
			name:         "missing query",
			body:         `{"variables":{}}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errors":[{"message":"Missing query"}]}`,
		},
		{
			name:         "body too large",
			body:         `{"query":"` + strings.Repeat(" ", 2048) + `{ products { id } }"}`,
			expectedCode: http.StatusRequestEntityTooLarge,
			expectedBody: `{"errors":[{"message":"Request body too large"}]}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(t, new(MockProductService))
			req := httptest.NewRequest(http.MethodPost, endpointPath, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func get(t *testing.T, h http.Handler, params url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, endpointPath+"?"+params.Encode(), nil))
	return rr
}

func TestHandler_GetQuery(t *testing.T) {
	// given
	svc := new(MockProductService)
	svc.On("Products", mock.Anything, ptr(true)).Return([]store.Product{
		{ID: "1", Name: "Widget", Price: 9.99, Category: "Tools", InStock: true},
	}, nil).Once()
	h := newTestRouter(t, svc)

	// when
	rr := get(t, h, url.Values{
		"query":         {`query InStock($inStock: Boolean) { products(inStock: $inStock) { id inStock } }`},
		"operationName": {"InStock"},
		"variables":     {`{"inStock":true}`},
	})

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"products":[{"id":"1","inStock":true}]}`, string(resp.Data))
	svc.AssertExpectations(t)
}

func TestHandler_GetMutationRejected(t *testing.T) {
	// given
	svc := new(MockProductService)
	h := newTestRouter(t, svc)

	// when
	rr := get(t, h, url.Values{"query": {`mutation { toggleProductStock(id: "1") { id inStock } }`}})

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	assert.NotEmpty(t, resp.Errors)
	assert.Contains(t, []string{"", "null"}, string(resp.Data))
	svc.AssertNotCalled(t, "ToggleStock", mock.Anything, mock.Anything)
}

func TestHandler_GetBadRequests(t *testing.T) {
	testCases := []struct {
		name         string
		params       url.Values
		expectedBody string
	}{
		{
			name:         "missing query",
			params:       url.Values{},
			expectedBody: `{"errors":[{"message":"Missing query"}]}`,
		},
		{
			name:         "variables are not a json object",
			params:       url.Values{"query": {"{ products { id } }"}, "variables": {`{"inStock":`}},
			expectedBody: `{"errors":[{"message":"Invalid variables"}]}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(t, new(MockProductService))

			rr := get(t, h, tc.params)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, new(MockProductService))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, endpointPath, strings.NewReader(`{"query":"{ products { id } }"}`)))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestQuerySDL(t *testing.T) {
	sdl := querySDL()

	assert.NotContains(t, sdl, "Mutation")
	assert.NotContains(t, sdl, "toggleProductStock")
	assert.Contains(t, sdl, "type Query {")
	assert.Contains(t, sdl, "type Product {")
}

func TestHandler_Schema(t *testing.T) {
	h := newTestRouter(t, new(MockProductService))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, schemaPath, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "toggleProductStock(id: ID!): Product!")
	assert.Contains(t, rr.Body.String(), "products(inStock: Boolean): [Product!]!")
	assert.Equal(t, SDL(), rr.Body.String())
}
