package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
)

// handleError обрабатывает ошибки и возвращает соответствующие HTTP коды
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	// Проверяем ValidationError
	if validationErr := apperrors.GetValidationError(err); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrURLNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "url_not_found",
			"message": "URL not found",
		})
		return
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You do not own this URL",
		})
		return
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Unknown account",
		})
		return
	}

	// Проверяем BusinessError
	if businessErr := apperrors.GetBusinessError(err); businessErr != nil {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", businessErr.Code),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "business_error",
			"message": businessErr.Message,
			"code":    businessErr.Code,
		})
		return
	}

	// Неизвестная ошибка
	logger.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An unexpected error occurred",
	})
}

func invalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}
