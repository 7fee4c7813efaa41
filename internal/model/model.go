// Package model defines the core domain types for the event platform.
package model

import "time"

// RSVPStatus is the lifecycle state of an attendance record.
type RSVPStatus string

const (
	// StatusConfirmed marks a live attendance record that counts
	// against the event's capacity.
	StatusConfirmed RSVPStatus = "confirmed"
	// StatusCancelled rounds out the status enum. Cancellation
	// deletes the record outright, so the value is never stored;
	// roster queries still filter on StatusConfirmed.
	StatusCancelled RSVPStatus = "cancelled"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event represents a bookable event created by an organizer.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	Capacity         int       `json:"capacity"`
	CurrentAttendees int       `json:"current_attendees"`
	ImageURL         string    `json:"image_url"`
	CreatorID        string    `json:"creator_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.Capacity - e.CurrentAttendees
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.CurrentAttendees >= e.Capacity
}

// RSVP represents a user's attendance record for an event.
// At most one confirmed record exists per (user, event) pair.
type RSVP struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	EventID   string     `json:"event_id"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Attendee is an RSVP joined with the attending user, for event rosters.
type Attendee struct {
	RSVP
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// UserRSVP is an RSVP joined with its event, for "my RSVPs" listings.
type UserRSVP struct {
	RSVP
	Event Event `json:"event"`
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the payload for editing the caller's profile.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChangePasswordRequest is the payload for rotating the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse carries a signed token and the authenticated user.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	ImageURL    string    `json:"image_url"`
}

// UpdateEventRequest is the payload for editing an event. Capacity and the
// attendee counter are not editable through this path.
type UpdateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
