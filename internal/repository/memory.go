package repository

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evntly/event-platform/internal/model"
)

// MemoryStore is an in-memory implementation of the store interfaces.
// It backs the test suite so the admission protocol can be exercised
// without a running postgres.
//
// A per-event mutex stands in for the row-level lock: Join and Cancel
// on one event serialize against each other, while operations on
// different events proceed independently, matching the postgres
// implementation's FOR UPDATE behaviour.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]*model.User
	usersByEmail map[string]string
	events       map[string]*memEvent
	rsvps        map[string]*model.RSVP
	rsvpByKey    map[memRSVPKey]string
}

type memEvent struct {
	model.Event
	mu      sync.Mutex
	deleted bool
}

type memRSVPKey struct {
	userID  string
	eventID string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*model.User),
		usersByEmail: make(map[string]string),
		events:       make(map[string]*memEvent),
		rsvps:        make(map[string]*model.RSVP),
		rsvpByKey:    make(map[memRSVPKey]string),
	}
}

var (
	_ UserStore  = (*memoryUserStore)(nil)
	_ EventStore = (*memoryEventStore)(nil)
	_ RSVPStore  = (*memoryRSVPStore)(nil)
)

// Users returns the UserStore view of the memory store.
func (s *MemoryStore) Users() UserStore { return &memoryUserStore{s} }

// Events returns the EventStore view of the memory store.
func (s *MemoryStore) Events() EventStore { return &memoryEventStore{s} }

// RSVPs returns the RSVPStore view of the memory store.
func (s *MemoryStore) RSVPs() RSVPStore { return &memoryRSVPStore{s} }

// ─── Users ────────────────────────────────────────────────────────────────────

type memoryUserStore struct{ s *MemoryStore }

func (m *memoryUserStore) Create(_ context.Context, name, email, passwordHash string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.usersByEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.s.users[user.ID] = user
	m.s.usersByEmail[email] = user.ID
	out := *user
	return &out, nil
}

func (m *memoryUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	user, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *memoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	id, ok := m.s.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *m.s.users[id]
	return &out, nil
}

func (m *memoryUserStore) UpdateProfile(_ context.Context, id, name, email string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	user, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if other, taken := m.s.usersByEmail[email]; taken && other != id {
		return nil, ErrDuplicateEmail
	}
	delete(m.s.usersByEmail, user.Email)
	user.Name = name
	user.Email = email
	m.s.usersByEmail[email] = id
	out := *user
	return &out, nil
}

func (m *memoryUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	user, ok := m.s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// ─── Events ───────────────────────────────────────────────────────────────────

type memoryEventStore struct{ s *MemoryStore }

func (m *memoryEventStore) Create(_ context.Context, creatorID string, req model.CreateEventRequest) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	now := time.Now().UTC()
	ev := &memEvent{Event: model.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	m.s.events[ev.ID] = ev
	out := ev.Event
	return &out, nil
}

func (m *memoryEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	ev, ok := m.s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := ev.Event
	return &out, nil
}

func (m *memoryEventStore) List(_ context.Context) ([]model.Event, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.collect(func(*memEvent) bool { return true }), nil
}

func (m *memoryEventStore) ListByCreator(_ context.Context, creatorID string) ([]model.Event, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.collect(func(ev *memEvent) bool { return ev.CreatorID == creatorID }), nil
}

func (m *memoryEventStore) Update(_ context.Context, id, requesterID string, req model.UpdateEventRequest) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	ev, ok := m.s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if ev.CreatorID != requesterID {
		return nil, ErrForbidden
	}
	ev.Title = req.Title
	ev.Description = req.Description
	ev.Date = req.Date
	ev.Location = req.Location
	ev.ImageURL = req.ImageURL
	ev.UpdatedAt = time.Now().UTC()
	out := ev.Event
	return &out, nil
}

func (m *memoryEventStore) Delete(_ context.Context, id, requesterID string) error {
	m.s.mu.RLock()
	ev, ok := m.s.events[id]
	m.s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	// Lock ordering matches Join/Cancel: event lock before store lock.
	ev.mu.Lock()
	defer ev.mu.Unlock()
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if ev.deleted {
		return ErrNotFound
	}
	if ev.CreatorID != requesterID {
		return ErrForbidden
	}
	ev.deleted = true
	delete(m.s.events, id)

	// Cascade: drop the event's attendance records.
	for rsvpID, rsvp := range m.s.rsvps {
		if rsvp.EventID == id {
			delete(m.s.rsvpByKey, memRSVPKey{rsvp.UserID, rsvp.EventID})
			delete(m.s.rsvps, rsvpID)
		}
	}
	return nil
}

func (m *memoryEventStore) collect(keep func(*memEvent) bool) []model.Event {
	var events []model.Event
	for _, ev := range m.s.events {
		if keep(ev) {
			events = append(events, ev.Event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// ─── RSVPs ────────────────────────────────────────────────────────────────────

type memoryRSVPStore struct{ s *MemoryStore }

func (m *memoryRSVPStore) Join(_ context.Context, eventID, userID string) (*model.RSVP, error) {
	m.s.mu.RLock()
	ev, ok := m.s.events[eventID]
	m.s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	// The event lock serializes admissions the way FOR UPDATE does.
	ev.mu.Lock()
	defer ev.mu.Unlock()
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if ev.deleted {
		return nil, ErrNotFound
	}
	if _, joined := m.s.rsvpByKey[memRSVPKey{userID, eventID}]; joined {
		return nil, ErrAlreadyJoined
	}
	if ev.CurrentAttendees >= ev.Capacity {
		return nil, ErrCapacityExceeded
	}

	rsvp := &model.RSVP{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Status:    model.StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
	m.s.rsvps[rsvp.ID] = rsvp
	m.s.rsvpByKey[memRSVPKey{userID, eventID}] = rsvp.ID
	ev.CurrentAttendees++

	out := *rsvp
	return &out, nil
}

func (m *memoryRSVPStore) Cancel(_ context.Context, eventID, userID string) error {
	m.s.mu.RLock()
	ev, ok := m.s.events[eventID]
	m.s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	ev.mu.Lock()
	defer ev.mu.Unlock()
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if ev.deleted {
		return ErrNotFound
	}
	rsvpID, joined := m.s.rsvpByKey[memRSVPKey{userID, eventID}]
	if !joined {
		return ErrNotFound
	}
	delete(m.s.rsvps, rsvpID)
	delete(m.s.rsvpByKey, memRSVPKey{userID, eventID})

	if ev.CurrentAttendees <= 0 {
		slog.Error("attendee counter already zero while cancelling a confirmed rsvp",
			"event_id", eventID, "user_id", userID)
	} else {
		ev.CurrentAttendees--
	}
	return nil
}

func (m *memoryRSVPStore) ListAttendees(_ context.Context, eventID string) ([]model.Attendee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var attendees []model.Attendee
	for _, rsvp := range m.s.rsvps {
		if rsvp.EventID != eventID || rsvp.Status != model.StatusConfirmed {
			continue
		}
		a := model.Attendee{RSVP: *rsvp}
		if user, ok := m.s.users[rsvp.UserID]; ok {
			a.UserName = user.Name
			a.UserEmail = user.Email
		}
		attendees = append(attendees, a)
	}
	sort.Slice(attendees, func(i, j int) bool {
		return attendees[i].CreatedAt.Before(attendees[j].CreatedAt)
	})
	return attendees, nil
}

func (m *memoryRSVPStore) ListByUser(_ context.Context, userID string) ([]model.UserRSVP, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var rsvps []model.UserRSVP
	for _, rsvp := range m.s.rsvps {
		if rsvp.UserID != userID || rsvp.Status != model.StatusConfirmed {
			continue
		}
		ur := model.UserRSVP{RSVP: *rsvp}
		if ev, ok := m.s.events[rsvp.EventID]; ok {
			ur.Event = ev.Event
		}
		rsvps = append(rsvps, ur)
	}
	sort.Slice(rsvps, func(i, j int) bool {
		return rsvps[i].Event.Date.Before(rsvps[j].Event.Date)
	})
	return rsvps, nil
}
