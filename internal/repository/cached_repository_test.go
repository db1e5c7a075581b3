package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-analytics/internal/cache"
	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

// mapCache - кэш в памяти с той же JSON-семантикой, что у RedisClient
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *mapCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return cache.NewCacheError("get", key, errors.New("connection reset"))
	}
	data, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *mapCache) HealthCheck(ctx context.Context) error { return nil }

func (c *mapCache) Close() error { return nil }

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// countingStore считает обращения к хранилищу за кодом
type countingStore struct {
	*MemoryStore
	lookups int
	byID    int
}

func (s *countingStore) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	s.byID++
	return s.MemoryStore.GetByID(ctx, id)
}

func (s *countingStore) GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	s.lookups++
	return s.MemoryStore.GetByShortCode(ctx, shortCode)
}

func newCachedStore(t *testing.T) (*CachedURLStore, *countingStore, *mapCache) {
	t.Helper()

	inner := &countingStore{MemoryStore: NewMemoryStore()}
	c := newMapCache()
	return NewCachedURLStore(inner, c, cache.NewKeyBuilder("test"), time.Hour, zap.NewNop()), inner, c
}

func TestCachedURLStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store, inner, c := newCachedStore(t)

	url := newURL("owner-a", "abc1234", time.Now().UTC())
	require.NoError(t, store.Create(ctx, url))

	first, err := store.GetByShortCode(ctx, "abc1234")
	require.NoError(t, err)
	second, err := store.GetByShortCode(ctx, "abc1234")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.lookups)
	assert.True(t, c.has("test:url:abc1234"))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OriginalURL, second.OriginalURL)
	assert.Equal(t, "owner-a", second.OwnerID)
}

func TestCachedURLStore_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	store, inner, c := newCachedStore(t)

	for i := 0; i < 2; i++ {
		_, err := store.GetByShortCode(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrURLNotFound)
	}

	assert.Equal(t, 2, inner.lookups)
	assert.False(t, c.has("test:url:missing"))
}

func TestCachedURLStore_CacheFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store, inner, c := newCachedStore(t)
	c.failGet = true

	require.NoError(t, store.Create(ctx, newURL("owner-a", "abc1234", time.Now())))

	url, err := store.GetByShortCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/abc1234", url.OriginalURL)
	assert.Equal(t, 1, inner.lookups)
}

func TestCachedURLStore_TTLCappedByExpiry(t *testing.T) {
	ctx := context.Background()
	store, _, c := newCachedStore(t)

	soon := time.Now().Add(10 * time.Minute)
	url := newURL("owner-a", "expires", time.Now())
	url.ExpiresAt = &soon
	require.NoError(t, store.Create(ctx, url))

	_, err := store.GetByShortCode(ctx, "expires")
	require.NoError(t, err)

	ttl := c.ttls["test:url:expires"]
	assert.LessOrEqual(t, ttl, 10*time.Minute)
	assert.Greater(t, ttl, 9*time.Minute)
}

func TestCachedURLStore_DeleteEvicts(t *testing.T) {
	ctx := context.Background()
	store, inner, c := newCachedStore(t)

	url := newURL("owner-a", "abc1234", time.Now())
	require.NoError(t, store.Create(ctx, url))

	_, err := store.GetByShortCode(ctx, "abc1234")
	require.NoError(t, err)
	require.True(t, c.has("test:url:abc1234"))

	deleted, err := store.Delete(ctx, url.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc1234", deleted.ShortCode)
	assert.Zero(t, inner.byID, "delete must not re-read the record")

	assert.False(t, c.has("test:url:abc1234"))
	_, err = store.GetByShortCode(ctx, "abc1234")
	assert.ErrorIs(t, err, apperrors.ErrURLNotFound)

	_, err = store.Delete(ctx, url.ID)
	assert.ErrorIs(t, err, apperrors.ErrURLNotFound)
}

func TestCachedURLStore_WithNullCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachedURLStore(inner, cache.NewNullCache(), cache.NewKeyBuilder(""), time.Hour, zap.NewNop())

	require.NoError(t, store.Create(ctx, newURL("owner-a", "abc1234", time.Now())))

	for i := 0; i < 3; i++ {
		_, err := store.GetByShortCode(ctx, "abc1234")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, inner.lookups)
}
