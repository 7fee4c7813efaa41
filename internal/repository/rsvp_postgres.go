package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evntly/event-platform/internal/model"
)

// RSVPRepository is the PostgreSQL implementation of RSVPStore.
type RSVPRepository struct {
	db *pgxpool.Pool
}

var _ RSVPStore = (*RSVPRepository)(nil)

// NewRSVPRepository constructs an RSVPRepository.
func NewRSVPRepository(db *pgxpool.Pool) *RSVPRepository {
	return &RSVPRepository{db: db}
}

// Join performs a concurrency-safe admission inside a serialised transaction.
//
// A naive read-then-write approach is broken here: two transactions can
// read the same counter snapshot before either writes back, and both see
// free capacity, overbooking the event.
//
// SELECT ... FOR UPDATE acquires a row-level exclusive lock on the event
// row the moment the SELECT executes inside the transaction. Any other
// transaction attempting the same lock blocks until the first COMMITs or
// ROLLBACKs, so only one admission at a time can read-then-write the
// counter. The unique index on rsvps(user_id, event_id) backs the
// duplicate check at the store level, so a duplicate-insert race is
// rejected even without the lock.
func (r *RSVPRepository) Join(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	// Begin a transaction – all steps below are atomic.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", ErrUnavailable, err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Step 1: acquire an exclusive row-level lock on the event.
	var capacity, attendees int
	err = tx.QueryRow(ctx,
		`SELECT capacity, current_attendees
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		eventID,
	).Scan(&capacity, &attendees)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, mapPgError("lock event row", err)
	}

	// Step 2: check for an existing confirmed RSVP.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM rsvps
			WHERE event_id = $1 AND user_id = $2 AND status = $3
		 )`,
		eventID, userID, model.StatusConfirmed,
	).Scan(&exists)
	if err != nil {
		return nil, mapPgError("check duplicate", err)
	}
	if exists {
		err = ErrAlreadyJoined
		return nil, err
	}

	// Step 3: guard against overbooking.
	if attendees >= capacity {
		err = ErrCapacityExceeded
		return nil, err
	}

	// Step 4: create the attendance record. The composite unique index
	// rejects a racing duplicate insert the prior read could not see.
	rsvp := &model.RSVP{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Status:    model.StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO rsvps (id, user_id, event_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rsvp.ID, rsvp.UserID, rsvp.EventID, rsvp.Status, rsvp.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrAlreadyJoined
			return nil, err
		}
		return nil, mapPgError("insert rsvp", err)
	}

	// Step 5: increment the counter in the same transaction.
	_, err = tx.Exec(ctx,
		`UPDATE events SET current_attendees = current_attendees + 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return nil, mapPgError("increment attendees", err)
	}

	// Step 6: commit – only now does any other transaction see the change.
	if err = tx.Commit(ctx); err != nil {
		return nil, mapPgError("commit transaction", err)
	}

	return rsvp, nil
}

// Cancel removes the caller's confirmed RSVP and frees the seat, inside
// one transaction. It locks the event row first, in the same order Join
// does, so the two can never deadlock on a single event.
func (r *RSVPRepository) Cancel(ctx context.Context, eventID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var attendees int
	err = tx.QueryRow(ctx,
		`SELECT current_attendees FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&attendees)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapPgError("lock event row", err)
	}

	var rsvpID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM rsvps
		 WHERE event_id = $1 AND user_id = $2 AND status = $3`,
		eventID, userID, model.StatusConfirmed,
	).Scan(&rsvpID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapPgError("find rsvp", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM rsvps WHERE id = $1`, rsvpID)
	if err != nil {
		return mapPgError("delete rsvp", err)
	}

	// A confirmed record existed, so the counter must be positive. A
	// zero counter here is a data-integrity fault; log it and floor at
	// zero rather than letting the check constraint abort the cancel.
	if attendees <= 0 {
		slog.Error("attendee counter already zero while cancelling a confirmed rsvp",
			"event_id", eventID, "user_id", userID)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE events SET current_attendees = current_attendees - 1 WHERE id = $1`,
			eventID,
		)
		if err != nil {
			return mapPgError("decrement attendees", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return mapPgError("commit transaction", err)
	}
	return nil
}

// ListAttendees returns the confirmed attendees for an event, with user
// details, oldest RSVP first.
func (r *RSVPRepository) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rs.id, rs.user_id, rs.event_id, rs.status, rs.created_at,
		        u.name, u.email
		 FROM rsvps rs
		 JOIN users u ON u.id = rs.user_id
		 WHERE rs.event_id = $1 AND rs.status = $2
		 ORDER BY rs.created_at ASC`,
		eventID, model.StatusConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.ID, &a.UserID, &a.EventID, &a.Status, &a.CreatedAt,
			&a.UserName, &a.UserEmail); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

// ListByUser returns the caller's confirmed RSVPs with their event data,
// soonest event first.
func (r *RSVPRepository) ListByUser(ctx context.Context, userID string) ([]model.UserRSVP, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rs.id, rs.user_id, rs.event_id, rs.status, rs.created_at,
		        e.id, e.title, e.description, e.event_date, e.location,
		        e.capacity, e.current_attendees, e.image_url, e.creator_id,
		        e.created_at, e.updated_at
		 FROM rsvps rs
		 JOIN events e ON e.id = rs.event_id
		 WHERE rs.user_id = $1 AND rs.status = $2
		 ORDER BY e.event_date ASC`,
		userID, model.StatusConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("list rsvps by user: %w", err)
	}
	defer rows.Close()

	var rsvps []model.UserRSVP
	for rows.Next() {
		var ur model.UserRSVP
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.EventID, &ur.Status, &ur.CreatedAt,
			&ur.Event.ID, &ur.Event.Title, &ur.Event.Description, &ur.Event.Date,
			&ur.Event.Location, &ur.Event.Capacity, &ur.Event.CurrentAttendees,
			&ur.Event.ImageURL, &ur.Event.CreatorID,
			&ur.Event.CreatedAt, &ur.Event.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		rsvps = append(rsvps, ur)
	}
	return rsvps, rows.Err()
}

// isUniqueViolation reports whether err is a postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapPgError translates transient postgres failures into the retryable
// ErrConflict sentinel and wraps everything else with context.
func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
