package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/auth"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

// URLManager - операции над ссылками владельца
type URLManager interface {
	CreateShortURL(ctx context.Context, ownerID string, req *model.CreateURLRequest) (*model.URLResponse, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*model.URLResponse, error)
	GetURL(ctx context.Context, ownerID string, id int64) (*model.URLResponse, error)
	DeleteURL(ctx context.Context, id int64, ownerID string) error
}

type URLHandler struct {
	urlService URLManager
	logger     *zap.Logger
}

func NewURLHandler(urlService URLManager, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		urlService: urlService,
		logger:     logger,
	}
}

func (h *URLHandler) CreateURL(c *gin.Context) {
	var req model.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "Invalid JSON format")
		return
	}

	response, err := h.urlService.CreateShortURL(c.Request.Context(), auth.OwnerID(c), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *URLHandler) ListURLs(c *gin.Context) {
	response, err := h.urlService.ListForOwner(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *URLHandler) GetURL(c *gin.Context) {
	id, ok := urlID(c)
	if !ok {
		return
	}

	response, err := h.urlService.GetURL(c.Request.Context(), auth.OwnerID(c), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *URLHandler) DeleteURL(c *gin.Context) {
	id, ok := urlID(c)
	if !ok {
		return
	}

	if err := h.urlService.DeleteURL(c.Request.Context(), id, auth.OwnerID(c)); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func urlID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		invalidRequest(c, "URL id must be a positive integer")
		return 0, false
	}
	return id, true
}
