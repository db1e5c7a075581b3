package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
	"github.com/Kosench/shortlink-analytics/internal/repository"
)

type AccountService struct {
	accounts repository.AccountRegistry
	logger   *zap.Logger
}

func NewAccountService(accounts repository.AccountRegistry, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		logger:   logger,
	}
}

// Register заводит аккаунт для владельца токена. Повторная регистрация
// возвращает существующий аккаунт и created=false.
func (s *AccountService) Register(ctx context.Context, ownerID, email string) (*model.Account, bool, error) {
	if ownerID == "" {
		return nil, false, fmt.Errorf("empty owner id: %w", apperrors.ErrUnauthorized)
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false, apperrors.NewValidationError("email", "email is required")
	}

	existing, err := s.accounts.GetAccount(ctx, ownerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		return nil, false, err
	}

	if err := s.accounts.CreateAccount(ctx, &model.Account{ID: ownerID, Email: email}); err != nil {
		if !apperrors.IsValidationError(err) {
			s.logger.Error("failed to register account", zap.String("owner_id", ownerID), zap.Error(err))
		}
		return nil, false, err
	}

	account, err := s.accounts.GetAccount(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("account registered", zap.String("owner_id", ownerID))
	return account, true, nil
}
