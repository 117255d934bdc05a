package models

import (
	"time"

	"github.com/google/uuid"
)

// Venue represents a bookable campus venue.
type Venue struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	Amenities     []string  `json:"amenities"`
	ContactPerson string    `json:"contact_person,omitempty"`
	ContactPhone  string    `json:"contact_phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
