// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/service"
	"github.com/abgdnv/gocatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// maxIDLength bounds path IDs before they reach the service.
const maxIDLength = 128

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new REST handler backed by the product service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAll)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Post("/stock/toggle", h.ToggleStock)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll lists products, optionally filtered by the inStock query parameter.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	inStock, ok := web.ParseOptionalBool(r, w, h.logger, "inStock")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to list products", "inStock", inStock)
	list, err := h.service.Products(r.Context(), inStock)
	if err != nil {
		if errors.Is(err, perrors.ErrStoreUnavailable) {
			h.logger.ErrorContext(r.Context(), "Product store unavailable", "error", err)
			web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Product store unavailable")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, perrors.ErrStoreUnavailable) {
			h.logger.ErrorContext(r.Context(), "Product store unavailable", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Product store unavailable")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	if found == nil {
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, h.logger, http.StatusNotFound, (&perrors.NotFoundError{ID: id}).Error())
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// ToggleStock flips the stock flag of a product.
func (h *Handler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to toggle stock for product", "ID", id)
	updated, err := h.service.ToggleStock(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrProductNotFound):
			h.logger.WarnContext(r.Context(), "Product not found for stock toggle", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, (&perrors.NotFoundError{ID: id}).Error())
		case errors.Is(err, perrors.ErrStoreUnavailable):
			h.logger.ErrorContext(r.Context(), "Product store unavailable", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Product store unavailable")
		default:
			h.logger.ErrorContext(r.Context(), "Error toggling stock for product", "ID", id, "error", err)
			web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to toggle stock for product with ID %s", id))
		}
		return
	}
	h.logger.InfoContext(r.Context(), "Stock toggled successfully for product", "ID", updated.ID, "inStock", updated.InStock)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseID reads the path ID and bounds its length and character set.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return "", false
	}
	if err := h.validate.Var(id, fmt.Sprintf("max=%d,printascii", maxIDLength)); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid product ID", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid ID")
		return "", false
	}
	return id, true
}
