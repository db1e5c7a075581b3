package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/auth"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

type AccountRegistrar interface {
	Register(ctx context.Context, ownerID, email string) (*model.Account, bool, error)
}

type AccountHandler struct {
	accounts AccountRegistrar
	logger   *zap.Logger
}

func NewAccountHandler(accounts AccountRegistrar, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Register заводит аккаунт владельца токена: 201 при создании, 200 если он уже есть
func (h *AccountHandler) Register(c *gin.Context) {
	var req model.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "A valid email is required")
		return
	}

	account, created, err := h.accounts.Register(c.Request.Context(), auth.OwnerID(c), req.Email)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, account)
}
