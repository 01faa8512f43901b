// Package rest contains the HTTP handlers: generic CRUD route factories
// parameterized over an entity repository, plus the per-entity bindings that
// deviate from plain CRUD.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/risinglab/rising-backend/internal/domain"
)

// Per-verb capability interfaces. A binding implements only the verbs its
// entity supports; contact, for instance, binds no delete.

// Lister lists entities matching a query.
type Lister[T any] interface {
	Find(ctx context.Context, q domain.ListQuery) ([]T, error)
}

// Creator persists a new entity from a normalized field record.
type Creator[T any] interface {
	Create(ctx context.Context, fields domain.Fields) (*T, error)
}

// Getter fetches one entity by id.
type Getter[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
}

// Updater applies a partial update by id.
type Updater[T any] interface {
	UpdateByID(ctx context.Context, id uuid.UUID, fields domain.Fields) (*T, error)
}

// Deleter removes one entity by id.
type Deleter interface {
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// List builds the collection GET handler. Optional filter / projection /
// options arrive as JSON-encoded query parameters; the projection is applied
// at serialization.
func List[T any](repo Lister[T], log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListQuery(r)
		if err != nil {
			// Malformed query JSON surfaces as a 500, not a 400; admin
			// clients build these params programmatically.
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		items, err := repo.Find(r.Context(), q)
		if err != nil {
			respondError(w, r, log, err, false)
			return
		}

		writeProjected(w, http.StatusOK, items, q.Projection)
	}
}

// Create builds the collection POST handler. resource names the entity in
// the success message ("Category created successfully").
func Create[T any](repo Creator[T], payload *Normalizer, resource string, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := payload.Fields(r, false)
		if err != nil {
			respondError(w, r, log, err, true)
			return
		}

		item, err := repo.Create(r.Context(), fields)
		if err != nil {
			respondError(w, r, log, err, true)
			return
		}

		writeJSON(w, http.StatusCreated, createdResponse[T]{
			Message: resource + " created successfully",
			Item:    item,
		})
	}
}

// Get builds the item GET handler.
func Get[T any](repo Getter[T], log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		item, err := repo.FindByID(r.Context(), id)
		if err != nil {
			respondError(w, r, log, err, false)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// Patch builds the item PATCH handler. Accepts JSON, multipart, or
// url-encoded bodies; anything else is a 415. Image values that are already
// absolute URLs are kept as-is instead of being re-uploaded.
func Patch[T any](repo Updater[T], payload *Normalizer, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		fields, err := payload.Fields(r, true)
		if err != nil {
			respondError(w, r, log, err, false)
			return
		}

		item, err := repo.UpdateByID(r.Context(), id, fields)
		if err != nil {
			respondError(w, r, log, err, false)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// Delete builds the item DELETE handler. 204 with no body on success.
func Delete(repo Deleter, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := repo.DeleteByID(r.Context(), id); err != nil {
			respondError(w, r, log, err, false)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type createdResponse[T any] struct {
	Message string `json:"message"`
	Item    *T     `json:"item"`
}

// pathID extracts and validates the {id} path segment, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps a domain error to a status code. withStack adds the
// message and stack trace to 500 bodies, matching the create contract.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, withStack bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrUnsupportedMedia):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported content type")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		if withStack {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": err.Error(),
				"stack":   string(debug.Stack()),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
