package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonnelRole classifies event staff.
type PersonnelRole string

const (
	PersonnelCoordinator PersonnelRole = "Coordinator"
	PersonnelVolunteer   PersonnelRole = "Volunteer"
	PersonnelStaff       PersonnelRole = "Staff"
	PersonnelSecurity    PersonnelRole = "Security"
	PersonnelTechSupport PersonnelRole = "Technical Support"
)

// ValidPersonnelRole reports whether r is a known role.
func ValidPersonnelRole(r PersonnelRole) bool {
	switch r {
	case PersonnelCoordinator, PersonnelVolunteer, PersonnelStaff, PersonnelSecurity, PersonnelTechSupport:
		return true
	}
	return false
}

// Personnel represents an event staff member.
type Personnel struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Role      PersonnelRole `json:"role"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Skills    []string      `json:"skills"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PersonnelAssignment is a derived view row: a staff member attached to an event
// with a named role through a calendar entry.
type PersonnelAssignment struct {
	EventID    uuid.UUID `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Role       string    `json:"role"`
}

// PersonnelDetail is a staff member with live assignments joined in.
type PersonnelDetail struct {
	Personnel
	Assignments []PersonnelAssignment `json:"assignments"`
}
