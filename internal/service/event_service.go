package service

import (
	"context"
	"strings"
	"time"

	"github.com/evntly/event-platform/internal/model"
	"github.com/evntly/event-platform/internal/repository"
)

const maxCapacity = 100_000

// EventService orchestrates event CRUD operations.
type EventService struct {
	events repository.EventStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events repository.EventStore) *EventService {
	return &EventService{events: events}
}

// CreateEvent validates the request and delegates to the repository.
func (s *EventService) CreateEvent(ctx context.Context, creatorID string, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" {
		return nil, invalidf("event title is required")
	}
	if req.Description == "" {
		return nil, invalidf("event description is required")
	}
	if req.Location == "" {
		return nil, invalidf("event location is required")
	}
	if req.Date.IsZero() || !req.Date.After(time.Now()) {
		return nil, invalidf("event date must be in the future")
	}
	if req.Capacity <= 0 {
		return nil, invalidf("capacity must be a positive integer")
	}
	if req.Capacity > maxCapacity {
		return nil, invalidf("capacity cannot exceed %d", maxCapacity)
	}
	return s.events.Create(ctx, creatorID, req)
}

// ListEvents returns all events, soonest first.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, invalidf("event id is required")
	}
	return s.events.GetByID(ctx, id)
}

// MyEvents returns the events created by the caller.
func (s *EventService) MyEvents(ctx context.Context, userID string) ([]model.Event, error) {
	return s.events.ListByCreator(ctx, userID)
}

// UpdateEvent validates the edit and delegates the ownership-checked
// update to the repository.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, requesterID string, req model.UpdateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" {
		return nil, invalidf("event title is required")
	}
	if req.Description == "" {
		return nil, invalidf("event description is required")
	}
	if req.Location == "" {
		return nil, invalidf("event location is required")
	}
	if req.Date.IsZero() {
		return nil, invalidf("event date is required")
	}
	return s.events.Update(ctx, eventID, requesterID, req)
}

// DeleteEvent removes an event after the repository's ownership check.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, requesterID string) error {
	if eventID == "" {
		return invalidf("event id is required")
	}
	return s.events.Delete(ctx, eventID, requesterID)
}
