package users

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ankit-yt/eventhub/internal/middleware"
	"github.com/ankit-yt/eventhub/internal/models"
	"github.com/ankit-yt/eventhub/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, avatarURL *string) (*models.UserPublic, error)
	List(ctx context.Context) ([]Profile, error)
}

// UpdateProfileRequest is the body for PUT /api/users/profile.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Profile handles GET /api/users/profile. Returns the authenticated user with
// the events they are registered for.
func (h *Handler) Profile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	profile, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("get profile", zap.Error(err))
		response.Internal(c, "error fetching profile")
		return
	}
	response.OK(c, profile)
}

// UpdateProfile handles PUT /api/users/profile. Email and role are not editable here.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Name != nil && *req.Name == "" {
		response.BadRequest(c, "name must not be empty")
		return
	}
	user, err := h.store.UpdateProfile(c.Request.Context(), userID, req.Name, req.AvatarURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("update profile", zap.Error(err))
		response.Internal(c, "error updating profile")
		return
	}
	response.OK(c, user)
}

// List handles GET /api/users (admin only). Each user carries their registered events.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		response.Internal(c, "error fetching users")
		return
	}
	response.OK(c, list)
}
