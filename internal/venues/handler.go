package venues

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
	List(ctx context.Context) ([]models.Venue, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	Create(ctx context.Context, v *models.Venue) error
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Venue, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateRequest is the body for POST /api/resources/venues.
type CreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	Capacity      int      `json:"capacity" binding:"required,gt=0"`
	Amenities     []string `json:"amenities"`
	ContactPerson string   `json:"contact_person"`
	ContactPhone  string   `json:"contact_phone"`
}

// UpdateRequest is the body for PUT /api/resources/venues/:id.
type UpdateRequest struct {
	Name          *string   `json:"name"`
	Location      *string   `json:"location"`
	Capacity      *int      `json:"capacity"`
	Amenities     *[]string `json:"amenities"`
	ContactPerson *string   `json:"contact_person"`
	ContactPhone  *string   `json:"contact_phone"`
}

// Handler handles venue HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a venues handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/resources/venues (public).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list venues", zap.Error(err))
		response.Internal(c, "error fetching venues")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /api/resources/venues/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue id")
		return
	}
	venue, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "venue not found")
			return
		}
		h.logger.Error("get venue", zap.Error(err))
		response.Internal(c, "error fetching venue")
		return
	}
	response.OK(c, venue)
}

// Create handles POST /api/resources/venues (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	venue := &models.Venue{
		Name:          req.Name,
		Location:      req.Location,
		Capacity:      req.Capacity,
		Amenities:     req.Amenities,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
	}
	if err := h.store.Create(c.Request.Context(), venue); err != nil {
		h.logger.Error("create venue", zap.Error(err))
		response.Internal(c, "error creating venue")
		return
	}
	response.Created(c, venue)
}

// Update handles PUT /api/resources/venues/:id (admin only, partial update).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		response.BadRequest(c, "capacity must be positive")
		return
	}
	venue, err := h.store.Update(c.Request.Context(), id, UpdateParams{
		Name:          req.Name,
		Location:      req.Location,
		Capacity:      req.Capacity,
		Amenities:     req.Amenities,
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "venue not found")
			return
		}
		h.logger.Error("update venue", zap.Error(err))
		response.Internal(c, "error updating venue")
		return
	}
	response.OK(c, venue)
}

// Delete handles DELETE /api/resources/venues/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "venue not found")
			return
		}
		h.logger.Error("delete venue", zap.Error(err))
		response.Internal(c, "error deleting venue")
		return
	}
	response.OK(c, gin.H{"message": "Venue deleted"})
}
