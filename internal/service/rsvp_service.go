package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/evntly/event-platform/internal/model"
	"github.com/evntly/event-platform/internal/repository"
)

const (
	// joinAttempts bounds retries of a transiently conflicting
	// admission transaction. Each failed attempt rolled back fully,
	// so retrying the whole operation is safe.
	joinAttempts = 3
	retryBackoff = 50 * time.Millisecond
)

// RSVPService orchestrates admission and cancellation. The capacity and
// uniqueness decisions themselves live inside the store transaction;
// this layer validates input, retries transient conflicts, and serves
// the read-only listings.
type RSVPService struct {
	rsvps repository.RSVPStore
}

// NewRSVPService constructs an RSVPService with its dependencies.
func NewRSVPService(rsvps repository.RSVPStore) *RSVPService {
	return &RSVPService{rsvps: rsvps}
}

// Join admits the user to the event, retrying bounded times when the
// store reports a transient transaction conflict.
func (s *RSVPService) Join(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	if eventID == "" {
		return nil, invalidf("event id is required")
	}

	var lastErr error
	for attempt := 1; attempt <= joinAttempts; attempt++ {
		rsvp, err := s.rsvps.Join(ctx, eventID, userID)
		if err == nil {
			return rsvp, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		lastErr = err
		if attempt == joinAttempts {
			break
		}
		slog.Warn("rsvp join conflicted, retrying",
			"event_id", eventID, "user_id", userID, "attempt", attempt)
		select {
		case <-time.After(time.Duration(attempt) * retryBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// Cancel withdraws the user's RSVP, with the same bounded retry.
func (s *RSVPService) Cancel(ctx context.Context, eventID, userID string) error {
	if eventID == "" {
		return invalidf("event id is required")
	}

	var lastErr error
	for attempt := 1; attempt <= joinAttempts; attempt++ {
		err := s.rsvps.Cancel(ctx, eventID, userID)
		if err == nil || !errors.Is(err, repository.ErrConflict) {
			return err
		}
		lastErr = err
		if attempt == joinAttempts {
			break
		}
		slog.Warn("rsvp cancel conflicted, retrying",
			"event_id", eventID, "user_id", userID, "attempt", attempt)
		select {
		case <-time.After(time.Duration(attempt) * retryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// Attendees returns the confirmed roster for an event.
func (s *RSVPService) Attendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if eventID == "" {
		return nil, invalidf("event id is required")
	}
	return s.rsvps.ListAttendees(ctx, eventID)
}

// MyRSVPs returns the caller's confirmed RSVPs with event data.
func (s *RSVPService) MyRSVPs(ctx context.Context, userID string) ([]model.UserRSVP, error) {
	return s.rsvps.ListByUser(ctx, userID)
}
