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

// RedirectService превращает короткий код в адрес редиректа и фиксирует клик
type RedirectService struct {
	urls   repository.URLStore
	tx     repository.TxManager
	logger *zap.Logger
	now    func() time.Time
}

func NewRedirectService(urls repository.URLStore, tx repository.TxManager, logger *zap.Logger) *RedirectService {
	return &RedirectService{
		urls:   urls,
		tx:     tx,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Resolve увеличивает счетчик и пишет событие клика в одной транзакции.
// Если любая из записей не удалась, редиректа нет и ничего не сохраняется.
func (s *RedirectService) Resolve(ctx context.Context, shortCode string, meta model.VisitorMetadata) (*model.RedirectResult, error) {
	if !utils.IsValidShortCode(shortCode) {
		s.logger.Debug("malformed short code", zap.String("short_code", shortCode))
		return nil, fmt.Errorf("URL with short code '%s': %w", shortCode, apperrors.ErrURLNotFound)
	}

	url, err := s.urls.GetByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrURLNotFound) {
			s.logger.Debug("short code not found", zap.String("short_code", shortCode))
		}
		return nil, err
	}

	var clickCount int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		count, err := stores.URLs.IncrementClickCount(ctx, url.ID)
		if err != nil {
			return err
		}

		event := &model.ClickEvent{
			URLID:     url.ID,
			Device:    meta.Device,
			Referrer:  meta.Referrer,
			CreatedAt: s.now(),
		}
		if err := stores.Events.Append(ctx, event); err != nil {
			return fmt.Errorf("failed to record click: %w", err)
		}

		clickCount = count
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrURLNotFound) {
			s.logger.Debug("short url removed during redirect", zap.String("short_code", shortCode))
		} else {
			s.logger.Error("redirect transaction failed", zap.String("short_code", shortCode), zap.Error(err))
		}
		return nil, err
	}

	return &model.RedirectResult{
		TargetURL:  url.OriginalURL,
		ClickCount: clickCount,
	}, nil
}
