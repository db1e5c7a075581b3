package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
	"github.com/Kosench/shortlink-analytics/internal/repository"
	"github.com/Kosench/shortlink-analytics/internal/utils"
)

const defaultMaxRetries = 10

type URLService struct {
	urls       repository.URLStore
	accounts   repository.AccountStore
	logger     *zap.Logger
	baseURL    string
	maxRetries int

	generateCode func() string
}

func NewURLService(urls repository.URLStore, accounts repository.AccountStore, logger *zap.Logger, baseURL string, maxRetries int) *URLService {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &URLService{
		urls:         urls,
		accounts:     accounts,
		logger:       logger,
		baseURL:      baseURL,
		maxRetries:   maxRetries,
		generateCode: utils.GenerateShortCode,
	}
}

// CreateShortURL выделяет свободный код и сохраняет ссылку от имени владельца
func (s *URLService) CreateShortURL(ctx context.Context, ownerID string, req *model.CreateURLRequest) (*model.URLResponse, error) {
	if _, err := s.accounts.GetAccount(ctx, ownerID); err != nil {
		return nil, err
	}

	expiresAt, err := utils.ParseExpiry(req.Expiry)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		url := &model.URL{
			OwnerID:     ownerID,
			OriginalURL: req.URL,
			ShortCode:   s.generateCode(),
			CreatedAt:   createdAt,
			ExpiresAt:   expiresAt,
		}

		err := s.urls.Create(ctx, url)
		if err == nil {
			s.logger.Info("short url created",
				zap.String("owner_id", ownerID),
				zap.String("short_code", url.ShortCode),
				zap.Int("attempt", attempt),
			)
			return s.toResponse(url), nil
		}

		if !errors.Is(err, apperrors.ErrShortCodeExists) {
			return nil, fmt.Errorf("failed to create URL: %w", err)
		}

		s.logger.Debug("short code collision, retrying",
			zap.String("short_code", url.ShortCode),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Error("short code space exhausted", zap.Int("attempts", s.maxRetries))
	return nil, apperrors.ErrShortCodeGeneration
}

func (s *URLService) ListForOwner(ctx context.Context, ownerID string) ([]*model.URLResponse, error) {
	if _, err := s.accounts.GetAccount(ctx, ownerID); err != nil {
		return nil, err
	}

	urls, err := s.urls.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}

	responses := make([]*model.URLResponse, 0, len(urls))
	for _, url := range urls {
		responses = append(responses, s.toResponse(url))
	}

	return responses, nil
}

// GetURL возвращает ссылку, только если она принадлежит ownerID
func (s *URLService) GetURL(ctx context.Context, ownerID string, id int64) (*model.URLResponse, error) {
	url, err := s.ownedURL(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	return s.toResponse(url), nil
}

// DeleteURL удаляет ссылку вместе с её кликами
func (s *URLService) DeleteURL(ctx context.Context, id int64, ownerID string) error {
	if _, err := s.ownedURL(ctx, ownerID, id); err != nil {
		return err
	}

	if _, err := s.urls.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete URL: %w", err)
	}

	s.logger.Info("short url deleted", zap.String("owner_id", ownerID), zap.Int64("url_id", id))
	return nil
}

func (s *URLService) ownedURL(ctx context.Context, ownerID string, id int64) (*model.URL, error) {
	if _, err := s.accounts.GetAccount(ctx, ownerID); err != nil {
		return nil, err
	}

	url, err := s.urls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if url.OwnerID != ownerID {
		s.logger.Warn("access to foreign URL denied",
			zap.String("owner_id", ownerID),
			zap.Int64("url_id", id),
		)
		return nil, fmt.Errorf("URL %d: %w", id, apperrors.ErrForbidden)
	}

	return url, nil
}

func (s *URLService) toResponse(url *model.URL) *model.URLResponse {
	return &model.URLResponse{
		ID:          url.ID,
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		ShortURL:    s.buildShortURL(url.ShortCode),
		ClickCount:  url.ClickCount,
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
	}
}

func (s *URLService) buildShortURL(shortCode string) string {
	return fmt.Sprintf("%s/s/%s", s.baseURL, shortCode)
}
