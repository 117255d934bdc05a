package equipment

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ankit-yt/eventhub/internal/models"
	"github.com/ankit-yt/eventhub/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	List(ctx context.Context) ([]models.Equipment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.EquipmentDetail, error)
	Create(ctx context.Context, e *models.Equipment) error
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Equipment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateRequest is the body for POST /api/resources/equipment.
type CreateRequest struct {
	Name                string     `json:"name" binding:"required"`
	Category            string     `json:"category" binding:"required"`
	Quantity            int        `json:"quantity" binding:"required,gte=0"`
	Description         string     `json:"description"`
	Condition           string     `json:"condition"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
}

// UpdateRequest is the body for PUT /api/resources/equipment/:id.
type UpdateRequest struct {
	Name                *string    `json:"name"`
	Category            *string    `json:"category"`
	Quantity            *int       `json:"quantity"`
	Description         *string    `json:"description"`
	Condition           *string    `json:"condition"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
}

// Handler handles equipment HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an equipment handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/resources/equipment (public).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list equipment", zap.Error(err))
		response.Internal(c, "error fetching equipment")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /api/resources/equipment/:id (public). Includes live allocations.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}
	item, err := h.store.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "equipment not found")
			return
		}
		h.logger.Error("get equipment", zap.Error(err))
		response.Internal(c, "error fetching equipment")
		return
	}
	response.OK(c, item)
}

// Create handles POST /api/resources/equipment (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	category := models.EquipmentCategory(req.Category)
	if !models.ValidEquipmentCategory(category) {
		response.BadRequest(c, "invalid category")
		return
	}
	condition := models.ConditionGood
	if req.Condition != "" {
		condition = models.EquipmentCondition(req.Condition)
		if !models.ValidEquipmentCondition(condition) {
			response.BadRequest(c, "invalid condition")
			return
		}
	}
	item := &models.Equipment{
		Name:                req.Name,
		Category:            category,
		Quantity:            req.Quantity,
		Description:         req.Description,
		Condition:           condition,
		LastMaintenanceDate: req.LastMaintenanceDate,
	}
	if err := h.store.Create(c.Request.Context(), item); err != nil {
		h.logger.Error("create equipment", zap.Error(err))
		response.Internal(c, "error creating equipment")
		return
	}
	response.Created(c, item)
}

// Update handles PUT /api/resources/equipment/:id (admin only, partial update).
// available_quantity is never writable: it follows quantity changes minus live allocations.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var params UpdateParams
	params.Name = req.Name
	params.Description = req.Description
	params.LastMaintenanceDate = req.LastMaintenanceDate
	if req.Category != nil {
		category := models.EquipmentCategory(*req.Category)
		if !models.ValidEquipmentCategory(category) {
			response.BadRequest(c, "invalid category")
			return
		}
		params.Category = &category
	}
	if req.Condition != nil {
		condition := models.EquipmentCondition(*req.Condition)
		if !models.ValidEquipmentCondition(condition) {
			response.BadRequest(c, "invalid condition")
			return
		}
		params.Condition = &condition
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			response.BadRequest(c, "quantity must not be negative")
			return
		}
		params.Quantity = req.Quantity
	}

	item, err := h.store.Update(c.Request.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "equipment not found")
		case errors.Is(err, ErrQuantityBelowAllocated):
			response.Conflict(c, "quantity is less than currently allocated amount")
		default:
			h.logger.Error("update equipment", zap.Error(err))
			response.Internal(c, "error updating equipment")
		}
		return
	}
	response.OK(c, item)
}

// Delete handles DELETE /api/resources/equipment/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "equipment not found")
			return
		}
		h.logger.Error("delete equipment", zap.Error(err))
		response.Internal(c, "error deleting equipment")
		return
	}
	response.OK(c, gin.H{"message": "Equipment deleted"})
}
