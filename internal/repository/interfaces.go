package repository

import (
	"context"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

var errEmailTaken = apperrors.NewValidationError("email", "email is already registered")

type URLStore interface {
	// Create возвращает ErrShortCodeExists, если код уже занят
	Create(ctx context.Context, url *model.URL) error
	GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error)
	GetByID(ctx context.Context, id int64) (*model.URL, error)
	// ListByOwner возвращает ссылки в порядке создания
	ListByOwner(ctx context.Context, ownerID string) ([]*model.URL, error)
	IncrementClickCount(ctx context.Context, id int64) (int64, error)
	// Delete возвращает удаленную запись
	Delete(ctx context.Context, id int64) (*model.URL, error)
}

type EventStore interface {
	Append(ctx context.Context, event *model.ClickEvent) error
	CountTotal(ctx context.Context, urlIDs []int64) (int64, error)
	CountByDay(ctx context.Context, urlIDs []int64) ([]model.DayCount, error)
	CountByDevice(ctx context.Context, urlIDs []int64) ([]model.LabelCount, error)
	CountByReferrer(ctx context.Context, urlIDs []int64) ([]model.LabelCount, error)
}

type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*model.Account, error)
}

// AccountRegistry умеет заводить аккаунты. CreateAccount идемпотентен по id
// и возвращает ValidationError, если email занят другим аккаунтом.
type AccountRegistry interface {
	AccountStore
	CreateAccount(ctx context.Context, account *model.Account) error
}

// TxStores - хранилища, привязанные к одной транзакции
type TxStores struct {
	URLs   URLStore
	Events EventStore
}

// TxManager выполняет fn атомарно: либо применяются все записи, либо ни одной
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error
}
