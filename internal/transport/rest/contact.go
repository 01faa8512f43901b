package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/risinglab/rising-backend/internal/domain"
)

// contactFormService handles public contact submissions.
type contactFormService interface {
	Submit(ctx context.Context, fields domain.Fields) (*domain.Contact, error)
}

// ContactHandler binds the contact routes. Submissions are public; the
// admin-side list defaults to newest first. Contacts are never deleted, so
// no delete route is bound.
type ContactHandler struct {
	svc      contactFormService
	contacts Lister[domain.Contact]
	payload  *Normalizer
	log      *slog.Logger
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(svc contactFormService, contacts Lister[domain.Contact], payload *Normalizer, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		svc:      svc,
		contacts: contacts,
		payload:  payload,
		log:      logger.With("handler", "contact"),
	}
}

type contactSubmittedResponse struct {
	Message string          `json:"message"`
	Contact *domain.Contact `json:"contact"`
}

// Submit handles POST /api/apps/contact. The stored submission is returned
// with a 200, not a 201; the public form relies on that status.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	fields, err := h.payload.Fields(r, false)
	if err != nil {
		respondError(w, r, h.log, err, false)
		return
	}

	contact, err := h.svc.Submit(r.Context(), fields)
	if err != nil {
		respondError(w, r, h.log, err, false)
		return
	}

	writeJSON(w, http.StatusOK, contactSubmittedResponse{
		Message: "Contact form submitted successfully",
		Contact: contact,
	})
}

// List handles GET /api/apps/contact. Without an explicit sort the
// submissions come back newest first.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(q.Sort) == 0 {
		q.Sort = []domain.SortKey{{Field: "createdAt", Desc: true}}
	}

	items, err := h.contacts.Find(r.Context(), q)
	if err != nil {
		respondError(w, r, h.log, err, false)
		return
	}

	writeProjected(w, http.StatusOK, items, q.Projection)
}
