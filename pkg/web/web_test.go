package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRespondJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondJSON(rr, discard, http.StatusCreated, map[string]int{"count": 2})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":2}`, rr.Body.String())
}

func TestRespondJSON_NilPayload(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondJSON(rr, discard, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name       string
		pathValue  string
		expectedID string
		expectedOk bool
	}{
		{name: "valid", pathValue: "42", expectedID: "42", expectedOk: true},
		{name: "blank", pathValue: "  ", expectedOk: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/x", nil)
			req.SetPathValue("id", tc.pathValue)
			rr := httptest.NewRecorder()

			id, ok := ParseID(rr, req, discard)

			assert.Equal(t, tc.expectedOk, ok)
			assert.Equal(t, tc.expectedID, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestParseOptionalBool(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected *bool
		ok       bool
	}{
		{name: "absent", query: "", expected: nil, ok: true},
		{name: "true", query: "?inStock=true", expected: ptr(true), ok: true},
		{name: "false", query: "?inStock=0", expected: ptr(false), ok: true},
		{name: "malformed", query: "?inStock=maybe", expected: nil, ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil)
			rr := httptest.NewRecorder()

			value, ok := ParseOptionalBool(req, rr, discard, "inStock")

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, value)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, `{"error":"Invalid inStock value: maybe"}`, rr.Body.String())
			}
		})
	}
}

func TestRequestIDInjector(t *testing.T) {
	var seen string
	h := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "abc", seen)
	})
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := BodyLimit(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))

	assert.Error(t, readErr)
}

func ptr[T any](v T) *T { return &v }
