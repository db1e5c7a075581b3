package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/cache"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

// cachedURL - неизменяемая часть ссылки; счетчик кликов в кэш не попадает
type cachedURL struct {
	ID          int64      `json:"id"`
	OwnerID     string     `json:"owner_id"`
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CachedURLStore - read-through кэш поиска по короткому коду поверх URLStore.
// При попадании в кэш ClickCount равен нулю: актуальное значение
// возвращают IncrementClickCount, GetByID и ListByOwner.
type CachedURLStore struct {
	URLStore
	cache  cache.Cache
	keys   *cache.KeyBuilder
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedURLStore(inner URLStore, c cache.Cache, keys *cache.KeyBuilder, ttl time.Duration, logger *zap.Logger) *CachedURLStore {
	return &CachedURLStore{
		URLStore: inner,
		cache:    c,
		keys:     keys,
		ttl:      ttl,
		logger:   logger,
	}
}

func (r *CachedURLStore) GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	key := r.keys.URL(shortCode)

	var cached cachedURL
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &model.URL{
			ID:          cached.ID,
			OwnerID:     cached.OwnerID,
			OriginalURL: cached.OriginalURL,
			ShortCode:   cached.ShortCode,
			CreatedAt:   cached.CreatedAt,
			ExpiresAt:   cached.ExpiresAt,
		}, nil
	}

	if !errors.Is(err, cache.ErrCacheMiss) {
		// Ошибка кэша не должна ломать редирект
		r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	url, err := r.URLStore.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	ttl := r.ttl
	if url.ExpiresAt != nil {
		remaining := time.Until(*url.ExpiresAt)
		if remaining <= 0 {
			return url, nil
		}
		if remaining < ttl {
			ttl = remaining
		}
	}

	entry := cachedURL{
		ID:          url.ID,
		OwnerID:     url.OwnerID,
		OriginalURL: url.OriginalURL,
		ShortCode:   url.ShortCode,
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
	}
	if err := r.cache.SetWithTTL(ctx, key, entry, ttl); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}

	return url, nil
}

// Delete удаляет ссылку и вычищает её из кэша
func (r *CachedURLStore) Delete(ctx context.Context, id int64) (*model.URL, error) {
	url, err := r.URLStore.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, r.keys.URL(url.ShortCode)); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("short_code", url.ShortCode), zap.Error(err))
	}

	return url, nil
}
