package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evntly/event-platform/internal/model"
)

func TestEventCRUDEndpoints(t *testing.T) {
	api := newTestAPI(t)
	_, creatorToken := api.signup(t, "creator@example.com")
	_, strangerToken := api.signup(t, "stranger@example.com")

	createReq := model.CreateEventRequest{
		Title:       "Launch Party",
		Description: "Celebrating the release",
		Date:        time.Now().Add(48 * time.Hour),
		Location:    "Rooftop",
		Capacity:    50,
	}

	// Creation requires authentication.
	rec := api.do(t, http.MethodPost, "/api/events", "", createReq)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/events", creatorToken, createReq)
	require.Equal(t, http.StatusCreated, rec.Code)
	var event model.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&event))
	assert.Equal(t, 0, event.CurrentAttendees)

	// Listing and reading are public.
	rec = api.do(t, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []model.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
	require.Len(t, events, 1)

	rec = api.do(t, http.MethodGet, "/api/events/"+event.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/events/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Only the creator may update or delete.
	edit := model.UpdateEventRequest{
		Title:       "Renamed",
		Description: createReq.Description,
		Date:        createReq.Date,
		Location:    createReq.Location,
	}
	rec = api.do(t, http.MethodPut, "/api/events/"+event.ID, strangerToken, edit)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/events/"+event.ID, creatorToken, edit)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/events/"+event.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/events/"+event.ID, creatorToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/events/"+event.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyEventsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	creatorID, creatorToken := api.signup(t, "creator@example.com")
	otherID, _ := api.signup(t, "other@example.com")
	api.createEvent(t, creatorID, 10)
	api.createEvent(t, otherID, 10)

	rec := api.do(t, http.MethodGet, "/api/events/user/my-events", creatorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []model.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, creatorID, events[0].CreatorID)
}

func TestCreateEventRejectsBadPayload(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup(t, "creator@example.com")

	rec := api.do(t, http.MethodPost, "/api/events", token, map[string]any{
		"title": "No capacity",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
