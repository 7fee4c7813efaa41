package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyJoined is returned when a user already holds a confirmed
// RSVP for the event.
var ErrAlreadyJoined = errors.New("already RSVP'd to this event")

// ErrCapacityExceeded is returned when an event has no remaining seats.
var ErrCapacityExceeded = errors.New("event is at full capacity")

// ErrForbidden is returned when a non-owner attempts an owner-only
// mutation on an event.
var ErrForbidden = errors.New("not authorized to modify this event")

// ErrDuplicateEmail is returned when an account with the email exists.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrConflict is returned on transient store-level contention
// (serialization failure, deadlock). The whole operation rolled back
// and may safely be retried.
var ErrConflict = errors.New("transaction conflict")

// ErrUnavailable is returned when the store cannot be reached.
var ErrUnavailable = errors.New("store unavailable")
