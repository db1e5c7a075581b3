package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
	"github.com/Kosench/shortlink-analytics/internal/repository"
)

func TestRedirectService_Resolve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	url := seedURL(t, store, ownerA, "abc1234", time.Now())
	service := NewRedirectService(store, store, zap.NewNop())

	result, err := service.Resolve(ctx, "abc1234", model.VisitorMetadata{
		Device:   strPtr("Mobile"),
		Referrer: strPtr("news.example.org"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/abc1234", result.TargetURL)
	assert.Equal(t, int64(1), result.ClickCount)

	devices, err := store.CountByDevice(ctx, []int64{url.ID})
	require.NoError(t, err)
	assert.Equal(t, []model.LabelCount{{Label: "Mobile", Count: 1}}, devices)

	referrers, err := store.CountByReferrer(ctx, []int64{url.ID})
	require.NoError(t, err)
	assert.Equal(t, []model.LabelCount{{Label: "news.example.org", Count: 1}}, referrers)
}

func TestRedirectService_Resolve_CountsEveryClick(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	url := seedURL(t, store, ownerA, "abc1234", time.Now())
	service := NewRedirectService(store, store, zap.NewNop())

	for i := 1; i <= 3; i++ {
		result, err := service.Resolve(ctx, "abc1234", model.VisitorMetadata{})
		require.NoError(t, err)
		assert.Equal(t, int64(i), result.ClickCount)
	}

	stored, err := store.GetByID(ctx, url.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.ClickCount)

	total, err := store.CountTotal(ctx, []int64{url.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRedirectService_Resolve_NotFound(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unknown code", "zzzzzzz"},
		{"malformed code", "../etc"},
		{"empty code", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore()
			url := seedURL(t, store, ownerA, "abc1234", time.Now())
			service := NewRedirectService(store, store, zap.NewNop())

			result, err := service.Resolve(ctx, tt.code, model.VisitorMetadata{})

			assert.Nil(t, result)
			assert.ErrorIs(t, err, apperrors.ErrURLNotFound)

			total, err := store.CountTotal(ctx, []int64{url.ID})
			require.NoError(t, err)
			assert.Zero(t, total)
		})
	}
}

func TestRedirectService_Resolve_RollsBackWhenEventFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	url := seedURL(t, store, ownerA, "abc1234", time.Now())
	service := NewRedirectService(store, failingEventsTx{inner: store}, zap.NewNop())

	result, err := service.Resolve(ctx, "abc1234", model.VisitorMetadata{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errStorage)

	stored, err := store.GetByID(ctx, url.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ClickCount, "increment must be rolled back")
}

// vanishingURLStore удаляет ссылку сразу после поиска
type vanishingURLStore struct {
	*repository.MemoryStore
}

func (s vanishingURLStore) GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	url, err := s.MemoryStore.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.MemoryStore.Delete(ctx, url.ID); err != nil {
		return nil, err
	}
	return url, nil
}

func TestRedirectService_Resolve_DeletedDuringRedirect(t *testing.T) {
	store := newTestStore()
	seedURL(t, store, ownerA, "abc1234", time.Now())
	service := NewRedirectService(vanishingURLStore{store}, store, zap.NewNop())

	_, err := service.Resolve(context.Background(), "abc1234", model.VisitorMetadata{})

	assert.ErrorIs(t, err, apperrors.ErrURLNotFound)
}

func TestRedirectService_Resolve_Concurrent(t *testing.T) {
	const clicks = 50

	ctx := context.Background()
	store := newTestStore()
	url := seedURL(t, store, ownerA, "abc1234", time.Now())
	service := NewRedirectService(store, store, zap.NewNop())

	var wg sync.WaitGroup
	errs := make(chan error, clicks)
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Resolve(ctx, "abc1234", model.VisitorMetadata{Device: strPtr("Desktop")})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := store.GetByID(ctx, url.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(clicks), stored.ClickCount)

	total, err := store.CountTotal(ctx, []int64{url.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(clicks), total)
}
