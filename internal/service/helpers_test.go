package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kosench/shortlink-analytics/internal/model"
	"github.com/Kosench/shortlink-analytics/internal/repository"
)

const (
	ownerA = "owner-a"
	ownerB = "owner-b"
)

var errStorage = errors.New("storage unavailable")

func newTestStore() *repository.MemoryStore {
	store := repository.NewMemoryStore()
	store.AddAccount(model.Account{ID: ownerA, Email: "a@example.com"})
	store.AddAccount(model.Account{ID: ownerB, Email: "b@example.com"})
	return store
}

func strPtr(s string) *string {
	return &s
}

// seedURL сохраняет ссылку напрямую в хранилище
func seedURL(t *testing.T, store *repository.MemoryStore, ownerID, code string, createdAt time.Time) *model.URL {
	t.Helper()

	url := &model.URL{
		OwnerID:     ownerID,
		OriginalURL: "https://example.com/" + code,
		ShortCode:   code,
		CreatedAt:   createdAt,
	}
	require.NoError(t, store.Create(context.Background(), url))
	return url
}

// click имитирует успешный редирект: счетчик плюс событие
func click(t *testing.T, store *repository.MemoryStore, urlID int64, device, referrer *string, at time.Time) {
	t.Helper()

	ctx := context.Background()
	_, err := store.IncrementClickCount(ctx, urlID)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, &model.ClickEvent{
		URLID:     urlID,
		Device:    device,
		Referrer:  referrer,
		CreatedAt: at,
	}))
}

// failingEventStore отказывает на любой операции
type failingEventStore struct{}

func (failingEventStore) Append(context.Context, *model.ClickEvent) error { return errStorage }

func (failingEventStore) CountTotal(context.Context, []int64) (int64, error) { return 0, errStorage }

func (failingEventStore) CountByDay(context.Context, []int64) ([]model.DayCount, error) {
	return nil, errStorage
}

func (failingEventStore) CountByDevice(context.Context, []int64) ([]model.LabelCount, error) {
	return nil, errStorage
}

func (failingEventStore) CountByReferrer(context.Context, []int64) ([]model.LabelCount, error) {
	return nil, errStorage
}

// failingEventsTx выполняет транзакцию хранилища, но подменяет запись событий
type failingEventsTx struct {
	inner repository.TxManager
}

func (f failingEventsTx) WithinTx(ctx context.Context, fn func(ctx context.Context, stores repository.TxStores) error) error {
	return f.inner.WithinTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		stores.Events = failingEventStore{}
		return fn(ctx, stores)
	})
}
