package models

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentCategory classifies equipment items.
type EquipmentCategory string

const (
	EquipmentAudio     EquipmentCategory = "Audio"
	EquipmentVisual    EquipmentCategory = "Visual"
	EquipmentLighting  EquipmentCategory = "Lighting"
	EquipmentFurniture EquipmentCategory = "Furniture"
	EquipmentOther     EquipmentCategory = "Other"
)

// ValidEquipmentCategory reports whether c is a known category.
func ValidEquipmentCategory(c EquipmentCategory) bool {
	switch c {
	case EquipmentAudio, EquipmentVisual, EquipmentLighting, EquipmentFurniture, EquipmentOther:
		return true
	}
	return false
}

// EquipmentCondition describes the physical state of an item.
type EquipmentCondition string

const (
	ConditionExcellent   EquipmentCondition = "Excellent"
	ConditionGood        EquipmentCondition = "Good"
	ConditionFair        EquipmentCondition = "Fair"
	ConditionNeedsRepair EquipmentCondition = "Needs Repair"
)

// ValidEquipmentCondition reports whether c is a known condition.
func ValidEquipmentCondition(c EquipmentCondition) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionNeedsRepair:
		return true
	}
	return false
}

// Equipment represents an allocatable equipment pool.
// Invariant: AvailableQuantity = Quantity - sum of live calendar allocations.
// Both columns are updated inside the same transaction as any allocation change.
type Equipment struct {
	ID                  uuid.UUID          `json:"id"`
	Name                string             `json:"name"`
	Category            EquipmentCategory  `json:"category"`
	Quantity            int                `json:"quantity"`
	AvailableQuantity   int                `json:"available_quantity"`
	Description         string             `json:"description,omitempty"`
	Condition           EquipmentCondition `json:"condition"`
	LastMaintenanceDate *time.Time         `json:"last_maintenance_date,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// EquipmentAllocation is a derived view row: quantity of an item reserved for an event
// through a calendar entry.
type EquipmentAllocation struct {
	EventID    uuid.UUID `json:"event_id"`
	EventTitle string    `json:"event_title"`
	Quantity   int       `json:"quantity_allocated"`
	Date       time.Time `json:"allocation_date"`
}

// EquipmentDetail is equipment with its live allocations joined in.
type EquipmentDetail struct {
	Equipment
	Allocations []EquipmentAllocation `json:"allocations"`
}
