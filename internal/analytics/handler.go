package analytics

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ankit-yt/eventhub/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	RegistrationTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	GetSummary(ctx context.Context) (*Summary, error)
}

// Handler handles analytics HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an analytics handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// RegistrationTrend handles GET /api/events/analytics/registration-trend (admin only).
// Returns a point per day for the trailing week, oldest first.
func (h *Handler) RegistrationTrend(c *gin.Context) {
	now := time.Now()
	// one extra day of slack so local-midnight boundaries never clip a bucket
	since := now.AddDate(0, 0, -TrendDays)
	times, err := h.store.RegistrationTimes(c.Request.Context(), since)
	if err != nil {
		h.logger.Error("registration trend", zap.Error(err))
		response.Internal(c, "error computing registration trend")
		return
	}
	response.OK(c, RegistrationTrend(now, times))
}

// Summary handles GET /api/events/analytics/summary (admin only).
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.store.GetSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("analytics summary", zap.Error(err))
		response.Internal(c, "error computing summary")
		return
	}
	response.OK(c, summary)
}
