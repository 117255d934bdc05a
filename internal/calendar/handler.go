package calendar

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ankit-yt/eventhub/internal/models"
	"github.com/ankit-yt/eventhub/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	List(ctx context.Context) ([]models.CalendarEntryDetail, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.CalendarEntryDetail, error)
	GetDetailByEvent(ctx context.Context, eventID uuid.UUID) (*models.CalendarEntryDetail, error)
	Create(ctx context.Context, entry *models.CalendarEntry) error
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.CalendarEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EquipmentAllocationRequest is one allocation in a create/update body.
type EquipmentAllocationRequest struct {
	EquipmentID string `json:"equipment_id" binding:"required,uuid"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// PersonnelAssignmentRequest is one assignment in a create/update body.
type PersonnelAssignmentRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required,uuid"`
	Role        string `json:"role"`
}

// CreateRequest is the body for POST /api/resources/calendar.
type CreateRequest struct {
	EventID   string                       `json:"event_id" binding:"required,uuid"`
	VenueID   string                       `json:"venue_id" binding:"required,uuid"`
	Equipment []EquipmentAllocationRequest `json:"allocated_equipment"`
	Personnel []PersonnelAssignmentRequest `json:"assigned_personnel"`
	Status    string                       `json:"status"`
	Notes     string                       `json:"notes"`
}

// UpdateRequest is the body for PUT /api/resources/calendar/:id.
type UpdateRequest struct {
	VenueID   *string                       `json:"venue_id"`
	Status    *string                       `json:"status"`
	Notes     *string                       `json:"notes"`
	Equipment *[]EquipmentAllocationRequest `json:"allocated_equipment"`
	Personnel *[]PersonnelAssignmentRequest `json:"assigned_personnel"`
}

// Handler handles resource calendar HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a calendar handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/resources/calendar.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list calendar entries", zap.Error(err))
		response.Internal(c, "error fetching calendar")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /api/resources/calendar/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid calendar entry id")
		return
	}
	entry, err := h.store.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "calendar entry not found")
			return
		}
		h.logger.Error("get calendar entry", zap.Error(err))
		response.Internal(c, "error fetching calendar entry")
		return
	}
	response.OK(c, entry)
}

// GetByEvent handles GET /api/resources/calendar/event/:eventId.
func (h *Handler) GetByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	entry, err := h.store.GetDetailByEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "calendar entry not found for this event")
			return
		}
		h.logger.Error("get calendar entry by event", zap.Error(err))
		response.Internal(c, "error fetching calendar entry")
		return
	}
	response.OK(c, entry)
}

// Create handles POST /api/resources/calendar (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	status := models.StatusPlanned
	if req.Status != "" {
		status = models.CalendarStatus(req.Status)
		if !models.ValidCalendarStatus(status) {
			response.BadRequest(c, "invalid status")
			return
		}
	}

	allocs, err := parseAllocations(req.Equipment)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	assignments, err := parseAssignments(req.Personnel)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry := &models.CalendarEntry{
		EventID:   uuid.MustParse(req.EventID),
		VenueID:   uuid.MustParse(req.VenueID),
		Equipment: allocs,
		Personnel: assignments,
		Status:    status,
		Notes:     req.Notes,
	}
	if err := h.store.Create(c.Request.Context(), entry); err != nil {
		switch {
		case errors.Is(err, ErrEventAlreadyScheduled):
			response.Conflict(c, "event already has a calendar entry")
		case errors.Is(err, ErrInsufficientQuantity):
			response.Conflict(c, "insufficient equipment quantity available")
		default:
			h.logger.Error("create calendar entry", zap.Error(err))
			response.Internal(c, "error creating calendar entry")
		}
		return
	}
	response.Created(c, entry)
}

// Update handles PUT /api/resources/calendar/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid calendar entry id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var params UpdateParams
	if req.VenueID != nil {
		venueID, err := uuid.Parse(*req.VenueID)
		if err != nil {
			response.BadRequest(c, "invalid venue_id")
			return
		}
		params.VenueID = &venueID
	}
	if req.Status != nil {
		status := models.CalendarStatus(*req.Status)
		if !models.ValidCalendarStatus(status) {
			response.BadRequest(c, "invalid status")
			return
		}
		params.Status = &status
	}
	params.Notes = req.Notes
	if req.Equipment != nil {
		allocs, err := parseAllocations(*req.Equipment)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Equipment = &allocs
	}
	if req.Personnel != nil {
		assignments, err := parseAssignments(*req.Personnel)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Personnel = &assignments
	}

	entry, err := h.store.Update(c.Request.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "calendar entry not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Conflict(c, "invalid status transition")
		case errors.Is(err, ErrInsufficientQuantity):
			response.Conflict(c, "insufficient equipment quantity available")
		default:
			h.logger.Error("update calendar entry", zap.Error(err))
			response.Internal(c, "error updating calendar entry")
		}
		return
	}
	response.OK(c, entry)
}

// Delete handles DELETE /api/resources/calendar/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid calendar entry id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "calendar entry not found")
			return
		}
		h.logger.Error("delete calendar entry", zap.Error(err))
		response.Internal(c, "error deleting calendar entry")
		return
	}
	response.OK(c, gin.H{"message": "Calendar entry deleted"})
}

func parseAllocations(reqs []EquipmentAllocationRequest) ([]models.AllocatedEquipment, error) {
	allocs := make([]models.AllocatedEquipment, 0, len(reqs))
	for _, a := range reqs {
		id, err := uuid.Parse(a.EquipmentID)
		if err != nil {
			return nil, errors.New("invalid equipment_id")
		}
		if a.Quantity <= 0 {
			return nil, errors.New("allocation quantity must be positive")
		}
		allocs = append(allocs, models.AllocatedEquipment{EquipmentID: id, Quantity: a.Quantity})
	}
	return allocs, nil
}

func parseAssignments(reqs []PersonnelAssignmentRequest) ([]models.AssignedPersonnel, error) {
	assignments := make([]models.AssignedPersonnel, 0, len(reqs))
	for _, p := range reqs {
		id, err := uuid.Parse(p.PersonnelID)
		if err != nil {
			return nil, errors.New("invalid personnel_id")
		}
		assignments = append(assignments, models.AssignedPersonnel{PersonnelID: id, Role: p.Role})
	}
	return assignments, nil
}
