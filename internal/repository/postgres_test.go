package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evntly/event-platform/internal/database"
	"github.com/evntly/event-platform/internal/model"
)

// newTestPool connects to the database named by TEST_DATABASE_URL and
// skips the test when none is configured, so the suite stays runnable
// without postgres. The memory-store tests cover the same protocol.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func pgUser(t *testing.T, pool *pgxpool.Pool, email string) *model.User {
	t.Helper()
	user, err := NewUserRepository(pool).Create(context.Background(), "Test User", email, "hash")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM rsvps WHERE user_id = $1`, user.ID)
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

func pgEvent(t *testing.T, pool *pgxpool.Pool, creatorID string, capacity int) *model.Event {
	t.Helper()
	event, err := NewEventRepository(pool).Create(context.Background(), creatorID, model.CreateEventRequest{
		Title:       "Meetup",
		Description: "A meetup",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Town Hall",
		Capacity:    capacity,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM events WHERE id = $1`, event.ID)
	})
	return event
}

func TestPostgresJoinCancelRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	rsvps := NewRSVPRepository(pool)
	events := NewEventRepository(pool)

	nonce := fmt.Sprintf("%d", time.Now().UnixNano())
	owner := pgUser(t, pool, "owner+"+nonce+"@example.com")
	guest := pgUser(t, pool, "guest+"+nonce+"@example.com")
	event := pgEvent(t, pool, owner.ID, 2)

	rsvp, err := rsvps.Join(ctx, event.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, rsvp.Status)

	_, err = rsvps.Join(ctx, event.ID, guest.ID)
	require.ErrorIs(t, err, ErrAlreadyJoined)

	got, err := events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentAttendees)

	require.NoError(t, rsvps.Cancel(ctx, event.ID, guest.ID))
	require.ErrorIs(t, rsvps.Cancel(ctx, event.ID, guest.ID), ErrNotFound)

	got, err = events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentAttendees)
}

func TestPostgresConcurrentJoinExactFill(t *testing.T) {
	const capacity, racers = 3, 8

	pool := newTestPool(t)
	ctx := context.Background()
	rsvps := NewRSVPRepository(pool)
	events := NewEventRepository(pool)

	nonce := fmt.Sprintf("%d", time.Now().UnixNano())
	owner := pgUser(t, pool, "owner+"+nonce+"@example.com")
	event := pgEvent(t, pool, owner.ID, capacity)

	users := make([]*model.User, racers)
	for i := range users {
		users[i] = pgUser(t, pool, fmt.Sprintf("racer%d+%s@example.com", i, nonce))
	}

	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := rsvps.Join(ctx, event.ID, userID)
			errs <- err
		}(u.ID)
	}
	wg.Wait()
	close(errs)

	var wins int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrCapacityExceeded)
	}
	assert.Equal(t, capacity, wins)

	got, err := events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, got.CurrentAttendees)

	attendees, err := rsvps.ListAttendees(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, attendees, capacity)
}

func TestPostgresUpdateDeletedEvent(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	events := NewEventRepository(pool)

	nonce := fmt.Sprintf("%d", time.Now().UnixNano())
	owner := pgUser(t, pool, "owner+"+nonce+"@example.com")
	event := pgEvent(t, pool, owner.ID, 2)

	_, err := pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, event.ID)
	require.NoError(t, err)

	_, err = events.Update(ctx, event.ID, owner.ID, model.UpdateEventRequest{
		Title:       "Renamed",
		Description: event.Description,
		Date:        event.Date,
		Location:    event.Location,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresJoinNonexistentEvent(t *testing.T) {
	pool := newTestPool(t)
	nonce := fmt.Sprintf("%d", time.Now().UnixNano())
	guest := pgUser(t, pool, "guest+"+nonce+"@example.com")

	_, err := NewRSVPRepository(pool).Join(context.Background(),
		"00000000-0000-0000-0000-000000000000", guest.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
