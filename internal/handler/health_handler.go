package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck проверяет одну зависимость; nil означает "не настроена"
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	database HealthCheck
	cache    HealthCheck
}

func NewHealthHandler(database, cache HealthCheck) *HealthHandler {
	return &HealthHandler{
		database: database,
		cache:    cache,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	services := gin.H{}

	for name, check := range map[string]HealthCheck{"database": h.database, "cache": h.cache} {
		switch {
		case check == nil:
			services[name] = "disabled"
		case check(ctx) != nil:
			services[name] = "unhealthy"
			status = "degraded"
		default:
			services[name] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":   status,
		"services": services,
	})
}
