package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/risinglab/rising-backend/internal/domain"
)

// productService defines the by-category-slug lookups.
type productService interface {
	DiamondsByCategorySlug(ctx context.Context, slug string) ([]domain.DiamondWithCategory, error)
	JewelleryByCategorySlug(ctx context.Context, slug string) ([]domain.JewelleryWithCategory, error)
}

// ProductsHandler binds the public by-category-slug product routes.
type ProductsHandler struct {
	svc productService
	log *slog.Logger
}

// NewProductsHandler creates a ProductsHandler.
func NewProductsHandler(svc productService, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{svc: svc, log: logger.With("handler", "products")}
}

// DiamondsByCategory handles GET /api/apps/diamond/category/{slug}.
func (h *ProductsHandler) DiamondsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing slug")
		return
	}

	items, err := h.svc.DiamondsByCategorySlug(r.Context(), slug)
	if err != nil {
		h.respondSlugError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// JewelleryByCategory handles GET /api/apps/jewellery/category/{slug}.
func (h *ProductsHandler) JewelleryByCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing slug")
		return
	}

	items, err := h.svc.JewelleryByCategorySlug(r.Context(), slug)
	if err != nil {
		h.respondSlugError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *ProductsHandler) respondSlugError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	h.log.ErrorContext(r.Context(), "by-slug lookup failed", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
