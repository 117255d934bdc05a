package personnel

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
	List(ctx context.Context) ([]models.Personnel, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.PersonnelDetail, error)
	Create(ctx context.Context, p *models.Personnel) error
	Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Personnel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateRequest is the body for POST /api/resources/personnel.
type CreateRequest struct {
	Name   string   `json:"name" binding:"required"`
	Role   string   `json:"role" binding:"required"`
	Email  string   `json:"email" binding:"required,email"`
	Phone  string   `json:"phone" binding:"required"`
	Skills []string `json:"skills"`
}

// UpdateRequest is the body for PUT /api/resources/personnel/:id.
type UpdateRequest struct {
	Name   *string   `json:"name"`
	Role   *string   `json:"role"`
	Email  *string   `json:"email"`
	Phone  *string   `json:"phone"`
	Skills *[]string `json:"skills"`
}

// Handler handles personnel HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a personnel handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/resources/personnel (public).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list personnel", zap.Error(err))
		response.Internal(c, "error fetching personnel")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /api/resources/personnel/:id (public). Includes live assignments.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid personnel id")
		return
	}
	person, err := h.store.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "personnel not found")
			return
		}
		h.logger.Error("get personnel", zap.Error(err))
		response.Internal(c, "error fetching personnel")
		return
	}
	response.OK(c, person)
}

// Create handles POST /api/resources/personnel (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.PersonnelRole(req.Role)
	if !models.ValidPersonnelRole(role) {
		response.BadRequest(c, "invalid role")
		return
	}
	person := &models.Personnel{
		Name:   req.Name,
		Role:   role,
		Email:  req.Email,
		Phone:  req.Phone,
		Skills: req.Skills,
	}
	if err := h.store.Create(c.Request.Context(), person); err != nil {
		h.logger.Error("create personnel", zap.Error(err))
		response.Internal(c, "error creating personnel")
		return
	}
	response.Created(c, person)
}

// Update handles PUT /api/resources/personnel/:id (admin only, partial update).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid personnel id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	params := UpdateParams{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Skills: req.Skills,
	}
	if req.Role != nil {
		role := models.PersonnelRole(*req.Role)
		if !models.ValidPersonnelRole(role) {
			response.BadRequest(c, "invalid role")
			return
		}
		params.Role = &role
	}
	person, err := h.store.Update(c.Request.Context(), id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "personnel not found")
			return
		}
		h.logger.Error("update personnel", zap.Error(err))
		response.Internal(c, "error updating personnel")
		return
	}
	response.OK(c, person)
}

// Delete handles DELETE /api/resources/personnel/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid personnel id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "personnel not found")
			return
		}
		h.logger.Error("delete personnel", zap.Error(err))
		response.Internal(c, "error deleting personnel")
		return
	}
	response.OK(c, gin.H{"message": "Personnel deleted"})
}
