package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/risinglab/rising-backend/internal/domain"
)

// categoryService defines the catalog operations the category binding needs.
type categoryService interface {
	ListCategories(ctx context.Context, q domain.ListQuery, populateParent bool) (any, error)
	CreateCategory(ctx context.Context, fields domain.Fields) (*domain.Category, error)
}

// CategoryHandler binds the category collection routes. List and create
// deviate from the generic factories: listing can populate the parent name,
// and creation resolves a parent given by display name.
type CategoryHandler struct {
	svc     categoryService
	payload *Normalizer
	log     *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(svc categoryService, payload *Normalizer, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		svc:     svc,
		payload: payload,
		log:     logger.With("handler", "category"),
	}
}

// List handles GET /api/apps/category. `populate=parent` resolves each
// category's parent display name into the response.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	populate := r.URL.Query().Get("populate") == "parent"

	items, err := h.svc.ListCategories(r.Context(), q, populate)
	if err != nil {
		respondError(w, r, h.log, err, false)
		return
	}

	writeProjected(w, http.StatusOK, items, q.Projection)
}

// Create handles POST /api/apps/category. A parent supplied as a
// human-readable name is resolved first; an unknown name is a 404 and
// nothing is created.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := h.payload.Fields(r, false)
	if err != nil {
		respondError(w, r, h.log, err, true)
		return
	}

	created, err := h.svc.CreateCategory(r.Context(), fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Parent category not found")
			return
		}
		respondError(w, r, h.log, err, true)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse[domain.Category]{
		Message: "Category created successfully",
		Item:    created,
	})
}
