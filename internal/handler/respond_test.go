package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evntly/event-platform/internal/model"
	"github.com/evntly/event-platform/internal/repository"
	"github.com/evntly/event-platform/internal/service"
)

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	// A real validation error, produced the way the services produce it.
	_, validationErr := service.NewEventService(repository.NewMemoryStore().Events()).
		CreateEvent(context.Background(), "creator-1", model.CreateEventRequest{})
	require.Error(t, validationErr)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"already joined", repository.ErrAlreadyJoined, http.StatusBadRequest},
		{"capacity exceeded", repository.ErrCapacityExceeded, http.StatusBadRequest},
		{"duplicate email", repository.ErrDuplicateEmail, http.StatusBadRequest},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"wrapped conflict", fmt.Errorf("join: %w", repository.ErrConflict), http.StatusServiceUnavailable},
		{"unavailable", repository.ErrUnavailable, http.StatusServiceUnavailable},
		{"validation", validationErr, http.StatusBadRequest},
		// Infrastructure failures outside the taxonomy are server
		// errors, never client errors.
		{"store failure", fmt.Errorf("get event: %w", errors.New("conn closed")), http.StatusInternalServerError},
		{"insert failure", fmt.Errorf("insert rsvp: %w", errors.New("broken pipe")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestServerErrorsDoNotLeakDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("pq: password authentication failed for user app"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
}
