package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evntly/event-platform/internal/model"
)

const eventColumns = `id, title, description, event_date, location,
	capacity, current_attendees, image_url, creator_id, created_at, updated_at`

// EventRepository is the PostgreSQL implementation of EventStore.
type EventRepository struct {
	db *pgxpool.Pool
}

var _ EventStore = (*EventRepository)(nil)

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, creatorID string, req model.CreateEventRequest) (*model.Event, error) {
	now := time.Now().UTC()
	event := &model.Event{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Location:         req.Location,
		Capacity:         req.Capacity,
		CurrentAttendees: 0,
		ImageURL:         req.ImageURL,
		CreatorID:        creatorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Title, event.Description, event.Date, event.Location,
		event.Capacity, event.CurrentAttendees, event.ImageURL, event.CreatorID,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// List returns all events ordered by event date ascending.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY event_date ASC`)
}

// ListByCreator returns events created by the given user, soonest first.
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]model.Event, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE creator_id = $1 ORDER BY event_date ASC`,
		creatorID)
}

// Update edits an event's mutable fields. Only the creator may update;
// capacity and the attendee counter are untouched.
func (r *EventRepository) Update(ctx context.Context, id, requesterID string, req model.UpdateEventRequest) (*model.Event, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != requesterID {
		return nil, ErrForbidden
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Date = req.Date
	event.Location = req.Location
	event.ImageURL = req.ImageURL
	event.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, event_date = $4, location = $5,
		     image_url = $6, updated_at = $7
		 WHERE id = $1`,
		event.ID, event.Title, event.Description, event.Date, event.Location,
		event.ImageURL, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	// The row can vanish between the ownership read and the write.
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return event, nil
}

// Delete removes an event. Only the creator may delete; the rsvps
// foreign key cascades so attendance records go with it.
func (r *EventRepository) Delete(ctx context.Context, id, requesterID string) error {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatorID != requesterID {
		return ErrForbidden
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.Capacity, &e.CurrentAttendees, &e.ImageURL, &e.CreatorID,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
