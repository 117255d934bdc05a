package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarStatus is the lifecycle state of a scheduled event.
type CalendarStatus string

const (
	StatusPlanned    CalendarStatus = "Planned"
	StatusConfirmed  CalendarStatus = "Confirmed"
	StatusInProgress CalendarStatus = "In Progress"
	StatusCompleted  CalendarStatus = "Completed"
	StatusCancelled  CalendarStatus = "Cancelled"
)

// ValidCalendarStatus reports whether s is a known status.
func ValidCalendarStatus(s CalendarStatus) bool {
	switch s {
	case StatusPlanned, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CalendarEntry binds one event to one venue plus resource allocations.
// VenueID is a plain reference: deleting a venue leaves it dangling (see DESIGN.md).
type CalendarEntry struct {
	ID        uuid.UUID            `json:"id"`
	EventID   uuid.UUID            `json:"event_id"`
	VenueID   uuid.UUID            `json:"venue_id"`
	Equipment []AllocatedEquipment `json:"allocated_equipment"`
	Personnel []AssignedPersonnel  `json:"assigned_personnel"`
	Status    CalendarStatus       `json:"status"`
	Notes     string               `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// AllocatedEquipment is one equipment allocation on a calendar entry.
type AllocatedEquipment struct {
	EquipmentID uuid.UUID `json:"equipment_id"`
	Name        string    `json:"name,omitempty"`
	Quantity    int       `json:"quantity"`
}

// AssignedPersonnel is one staff assignment on a calendar entry.
type AssignedPersonnel struct {
	PersonnelID uuid.UUID `json:"personnel_id"`
	Name        string    `json:"name,omitempty"`
	Role        string    `json:"role"`
}

// CalendarEntryDetail is a calendar entry with event and venue detail joined in.
// Venue is nil when the referenced venue no longer exists.
type CalendarEntryDetail struct {
	CalendarEntry
	Event *Event `json:"event,omitempty"`
	Venue *Venue `json:"venue,omitempty"`
}
