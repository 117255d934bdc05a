package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a campus event.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	BannerURL   string    `json:"banner_url,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventWithCounts is an event plus its registration count for list views.
// The count is the cardinality of the registration ledger, never a stored field.
type EventWithCounts struct {
	Event
	AttendeeCount int `json:"attendee_count"`
}

// EventDetail is an event with creator and attendee info joined in.
type EventDetail struct {
	Event
	Creator   *UserPublic  `json:"created_by_user,omitempty"`
	Attendees []UserPublic `json:"attendees"`
}

// Registration is one row of the registration ledger: user X registered for event Y.
// The (EventID, UserID) pair is unique; registration count for an event is the number
// of ledger rows with that EventID.
type Registration struct {
	EventID      uuid.UUID `json:"event_id"`
	UserID       uuid.UUID `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Attendee is a registered user as returned by the attendees listing.
type Attendee struct {
	UserPublic
	RegisteredAt time.Time `json:"registered_at"`
}
