package events

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ankit-yt/eventhub/internal/calendar"
	"github.com/ankit-yt/eventhub/internal/middleware"
	"github.com/ankit-yt/eventhub/internal/models"
	"github.com/ankit-yt/eventhub/pkg/response"
	"github.com/ankit-yt/eventhub/pkg/storage"
)

// Store is the persistence surface the handler needs.
type Store interface {
	List(ctx context.Context) ([]models.EventWithCounts, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.EventDetail, error)
	Create(ctx context.Context, e *models.Event, schedule *ScheduleParams) error
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Register(ctx context.Context, eventID, userID uuid.UUID) error
	Unregister(ctx context.Context, eventID, userID uuid.UUID) error
	Attendees(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error)
	SetBannerURL(ctx context.Context, id uuid.UUID, url string) error
}

// ScheduleRequest is the optional schedule block on event creation. When present,
// the calendar entry is created in the same transaction as the event.
type ScheduleRequest struct {
	VenueID   string                       `json:"venue_id" binding:"required,uuid"`
	Equipment []EquipmentAllocationRequest `json:"allocated_equipment"`
	Personnel []PersonnelAssignmentRequest `json:"assigned_personnel"`
	Notes     string                       `json:"notes"`
}

// EquipmentAllocationRequest is one equipment allocation in a schedule block.
type EquipmentAllocationRequest struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
}

// PersonnelAssignmentRequest is one staff assignment in a schedule block.
type PersonnelAssignmentRequest struct {
	PersonnelID string `json:"personnel_id"`
	Role        string `json:"role"`
}

// CreateRequest is the body for POST /api/events.
type CreateRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Date        string           `json:"date" binding:"required"`
	Venue       string           `json:"venue"`
	BannerURL   string           `json:"banner_url"`
	Schedule    *ScheduleRequest `json:"schedule"`
}

// UpdateRequest is the body for PUT /api/events/:id. Absent fields keep prior values.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
	Venue       *string `json:"venue"`
	BannerURL   *string `json:"banner_url"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	store  Store
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates an events handler. s3 may be nil; banner uploads then report unavailable.
func NewHandler(store Store, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, s3: s3, logger: logger}
}

// List handles GET /api/events (public).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list events", zap.Error(err))
		response.Internal(c, "error fetching events")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /api/events/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.store.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "error fetching event")
		return
	}
	response.OK(c, event)
}

// Create handles POST /api/events (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}

	var schedule *ScheduleParams
	if req.Schedule != nil {
		schedule, err = parseSchedule(req.Schedule)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		Venue:       req.Venue,
		BannerURL:   req.BannerURL,
		CreatedBy:   userID,
	}
	if err := h.store.Create(c.Request.Context(), event, schedule); err != nil {
		switch {
		case errors.Is(err, calendar.ErrEventAlreadyScheduled):
			response.Conflict(c, "event already has a calendar entry")
		case errors.Is(err, calendar.ErrInsufficientQuantity):
			response.Conflict(c, "insufficient equipment quantity available")
		default:
			h.logger.Error("create event", zap.Error(err))
			response.Internal(c, "error creating event")
		}
		return
	}
	response.Created(c, event)
}

// Update handles PUT /api/events/:id (admin only, partial update).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	params := UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		BannerURL:   req.BannerURL,
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date")
			return
		}
		params.Date = &date
	}
	event, err := h.store.Update(c.Request.Context(), id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("update event", zap.Error(err))
		response.Internal(c, "error updating event")
		return
	}
	response.OK(c, event)
}

// Delete handles DELETE /api/events/:id (admin only). The calendar entry and
// ledger rows go in the same transaction.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("delete event", zap.Error(err))
		response.Internal(c, "error deleting event")
		return
	}
	response.OK(c, gin.H{"message": "Event deleted successfully"})
}

// Register handles POST /api/events/:id/register. Users register themselves.
func (h *Handler) Register(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.store.Register(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "event not found")
		case errors.Is(err, ErrAlreadyRegistered):
			response.Conflict(c, "already registered for this event")
		default:
			h.logger.Error("register", zap.Error(err), zap.String("event_id", id.String()))
			response.Internal(c, "error registering for event")
		}
		return
	}
	response.OK(c, gin.H{"message": "Registered successfully"})
}

// Unregister handles POST /api/events/:id/unregister. Removing a non-member is a no-op.
func (h *Handler) Unregister(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.store.Unregister(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("unregister", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "error unregistering from event")
		return
	}
	response.OK(c, gin.H{"message": "Unregistered successfully"})
}

// AttendeesResponse is the JSON shape for the attendees listing.
type AttendeesResponse struct {
	EventID        uuid.UUID         `json:"event_id"`
	EventTitle     string            `json:"event_title"`
	EventDate      time.Time         `json:"event_date"`
	TotalAttendees int               `json:"total_attendees"`
	Attendees      []models.Attendee `json:"attendees"`
}

// Attendees handles GET /api/events/:id/attendees (admin only).
func (h *Handler) Attendees(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	detail, err := h.store.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "error fetching attendees")
		return
	}
	attendees, err := h.store.Attendees(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list attendees", zap.Error(err))
		response.Internal(c, "error fetching attendees")
		return
	}
	response.OK(c, AttendeesResponse{
		EventID:        detail.ID,
		EventTitle:     detail.Title,
		EventDate:      detail.Date,
		TotalAttendees: len(attendees),
		Attendees:      attendees,
	})
}

func parseSchedule(req *ScheduleRequest) (*ScheduleParams, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, errors.New("invalid schedule venue_id")
	}
	params := &ScheduleParams{VenueID: venueID, Notes: req.Notes}
	for _, a := range req.Equipment {
		id, err := uuid.Parse(a.EquipmentID)
		if err != nil {
			return nil, errors.New("invalid schedule equipment_id")
		}
		if a.Quantity <= 0 {
			return nil, errors.New("allocation quantity must be positive")
		}
		params.Equipment = append(params.Equipment, models.AllocatedEquipment{EquipmentID: id, Quantity: a.Quantity})
	}
	for _, p := range req.Personnel {
		id, err := uuid.Parse(p.PersonnelID)
		if err != nil {
			return nil, errors.New("invalid schedule personnel_id")
		}
		params.Personnel = append(params.Personnel, models.AssignedPersonnel{PersonnelID: id, Role: p.Role})
	}
	return params, nil
}
