package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/auth"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

type OverviewProvider interface {
	GetOverview(ctx context.Context, ownerID string) (*model.AnalyticsSnapshot, error)
}

type AnalyticsHandler struct {
	analytics OverviewProvider
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics OverviewProvider, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	snapshot, err := h.analytics.GetOverview(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
