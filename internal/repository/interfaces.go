// Package repository implements all database access for the event platform.
// It uses pgx directly (no ORM) for transparency and performance; an
// in-memory implementation of the same interfaces backs the tests.
package repository

import (
	"context"

	"github.com/evntly/event-platform/internal/model"
)

// UserStore defines persistence for accounts.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// EventStore defines persistence for events. The attendee counter is
// mutated only by the RSVPStore's admission transaction.
type EventStore interface {
	Create(ctx context.Context, creatorID string, req model.CreateEventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error)
	Update(ctx context.Context, id, requesterID string, req model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id, requesterID string) error
}

// RSVPStore defines persistence for attendance records, including the
// two capacity-affecting admission operations.
//
// Join and Cancel each execute as one atomic transaction: the capacity
// check, the counter mutation, and the record insert/delete commit
// together or not at all.
type RSVPStore interface {
	Join(ctx context.Context, eventID, userID string) (*model.RSVP, error)
	Cancel(ctx context.Context, eventID, userID string) error
	ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserRSVP, error)
}
