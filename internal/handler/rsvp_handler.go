package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evntly/event-platform/internal/model"
	"github.com/evntly/event-platform/internal/service"
)

// RSVPHandler holds the HTTP handlers for admission and cancellation.
type RSVPHandler struct {
	svc *service.RSVPService
}

// NewRSVPHandler constructs an RSVPHandler.
func NewRSVPHandler(svc *service.RSVPService) *RSVPHandler {
	return &RSVPHandler{svc: svc}
}

// Join handles POST /api/rsvp/{eventId}
// Performs a concurrency-safe admission to the event.
func (h *RSVPHandler) Join(w http.ResponseWriter, r *http.Request) {
	rsvp, err := h.svc.Join(r.Context(), chi.URLParam(r, "eventId"), UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rsvp)
}

// Cancel handles DELETE /api/rsvp/{eventId}
func (h *RSVPHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "eventId"), UserID(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rsvp cancelled"})
}

// Attendees handles GET /api/rsvp/event/{eventId}
func (h *RSVPHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.svc.Attendees(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list attendees")
		return
	}

	if attendees == nil {
		attendees = []model.Attendee{}
	}
	writeJSON(w, http.StatusOK, attendees)
}

// MyRSVPs handles GET /api/rsvp/my-rsvps
func (h *RSVPHandler) MyRSVPs(w http.ResponseWriter, r *http.Request) {
	rsvps, err := h.svc.MyRSVPs(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rsvps")
		return
	}

	if rsvps == nil {
		rsvps = []model.UserRSVP{}
	}
	writeJSON(w, http.StatusOK, rsvps)
}
