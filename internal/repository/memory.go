package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

var (
	_ URLStore        = (*MemoryStore)(nil)
	_ EventStore      = (*MemoryStore)(nil)
	_ AccountRegistry = (*MemoryStore)(nil)
	_ TxManager       = (*MemoryStore)(nil)
)

// MemoryStore - хранилище в памяти для разработки и тестов.
// Повторяет семантику Postgres: уникальный short_code, внешний ключ
// click_events.url_id и каскадное удаление событий.
type MemoryStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	nextURLID   int64
	nextEventID int64
	urls        map[int64]*model.URL
	codes       map[string]int64
	events      []model.ClickEvent
	accounts    map[string]model.Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:     make(map[int64]*model.URL),
		codes:    make(map[string]int64),
		accounts: make(map[string]model.Account),
	}
}

// AddAccount заводит или перезаписывает аккаунт; для наполнения тестов
func (m *MemoryStore) AddAccount(account model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	m.accounts[account.ID] = account
}

func (m *MemoryStore) CreateAccount(ctx context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[account.ID]; exists {
		return nil
	}
	for _, other := range m.accounts {
		if other.Email == account.Email {
			return errEmailTaken
		}
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	m.accounts[account.ID] = *account

	return nil
}

func (m *MemoryStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", id, apperrors.ErrUnauthorized)
	}

	return &account, nil
}

func (m *MemoryStore) Create(ctx context.Context, url *model.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.codes[url.ShortCode]; exists {
		return apperrors.ErrShortCodeExists
	}

	m.nextURLID++
	url.ID = m.nextURLID
	url.ClickCount = 0

	stored := *url
	m.urls[stored.ID] = &stored
	m.codes[stored.ShortCode] = stored.ID

	return nil
}

func (m *MemoryStore) GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.codes[shortCode]
	if !ok {
		return nil, fmt.Errorf("URL with short code '%s': %w", shortCode, apperrors.ErrURLNotFound)
	}

	url := *m.urls[id]
	return &url, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.urls[id]
	if !ok {
		return nil, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	url := *stored
	return &url, nil
}

func (m *MemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	urls := make([]*model.URL, 0)
	for _, stored := range m.urls {
		if stored.OwnerID == ownerID {
			url := *stored
			urls = append(urls, &url)
		}
	}

	sort.Slice(urls, func(i, j int) bool {
		if !urls[i].CreatedAt.Equal(urls[j].CreatedAt) {
			return urls[i].CreatedAt.Before(urls[j].CreatedAt)
		}
		return urls[i].ID < urls[j].ID
	})

	return urls, nil
}

func (m *MemoryStore) IncrementClickCount(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.urls[id]
	if !ok {
		return 0, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	stored.ClickCount++
	return stored.ClickCount, nil
}

// Delete удаляет ссылку вместе с её событиями
func (m *MemoryStore) Delete(ctx context.Context, id int64) (*model.URL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.urls[id]
	if !ok {
		return nil, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	delete(m.codes, stored.ShortCode)
	delete(m.urls, id)

	kept := m.events[:0]
	for _, e := range m.events {
		if e.URLID != id {
			kept = append(kept, e)
		}
	}
	m.events = kept

	return stored, nil
}

func (m *MemoryStore) Append(ctx context.Context, event *model.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[event.URLID]; !ok {
		return fmt.Errorf("URL with ID %d: %w", event.URLID, apperrors.ErrURLNotFound)
	}

	m.nextEventID++
	event.ID = m.nextEventID
	m.events = append(m.events, *event)

	return nil
}

func (m *MemoryStore) CountTotal(ctx context.Context, urlIDs []int64) (int64, error) {
	var total int64
	m.eachEvent(urlIDs, func(model.ClickEvent) { total++ })
	return total, nil
}

func (m *MemoryStore) CountByDay(ctx context.Context, urlIDs []int64) ([]model.DayCount, error) {
	byDay := make(map[time.Time]int64)
	m.eachEvent(urlIDs, func(e model.ClickEvent) {
		t := e.CreatedAt.UTC()
		byDay[time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)]++
	})

	counts := make([]model.DayCount, 0, len(byDay))
	for day, count := range byDay {
		counts = append(counts, model.DayCount{Day: day, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Day.Before(counts[j].Day) })

	return counts, nil
}

func (m *MemoryStore) CountByDevice(ctx context.Context, urlIDs []int64) ([]model.LabelCount, error) {
	return m.countByLabel(urlIDs, func(e model.ClickEvent) *string { return e.Device }), nil
}

func (m *MemoryStore) CountByReferrer(ctx context.Context, urlIDs []int64) ([]model.LabelCount, error) {
	return m.countByLabel(urlIDs, func(e model.ClickEvent) *string { return e.Referrer }), nil
}

func (m *MemoryStore) countByLabel(urlIDs []int64, label func(model.ClickEvent) *string) []model.LabelCount {
	byLabel := make(map[string]int64)
	m.eachEvent(urlIDs, func(e model.ClickEvent) {
		name := model.UnknownLabel
		if v := label(e); v != nil && *v != "" {
			name = *v
		}
		byLabel[name]++
	})

	counts := make([]model.LabelCount, 0, len(byLabel))
	for name, count := range byLabel {
		counts = append(counts, model.LabelCount{Label: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})

	return counts
}

func (m *MemoryStore) eachEvent(urlIDs []int64, fn func(model.ClickEvent)) {
	if len(urlIDs) == 0 {
		return
	}

	ids := make(map[int64]struct{}, len(urlIDs))
	for _, id := range urlIDs {
		ids[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.events {
		if _, ok := ids[e.URLID]; ok {
			fn(e)
		}
	}
}

// WithinTx сериализует транзакции и копит их записи до фиксации.
// Чтения вне транзакции видят только зафиксированные данные.
func (m *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{MemoryStore: m, clicks: make(map[int64]int64)}
	stores := TxStores{URLs: tx, Events: tx}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	return tx.commit()
}

// memoryTx буферизует инкременты и события; без commit они теряются
type memoryTx struct {
	*MemoryStore
	clicks map[int64]int64
	events []model.ClickEvent
}

func (tx *memoryTx) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	url, err := tx.MemoryStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url.ClickCount += tx.clicks[id]
	return url, nil
}

func (tx *memoryTx) GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	url, err := tx.MemoryStore.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	url.ClickCount += tx.clicks[url.ID]
	return url, nil
}

func (tx *memoryTx) IncrementClickCount(ctx context.Context, id int64) (int64, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	stored, ok := tx.urls[id]
	if !ok {
		return 0, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	tx.clicks[id]++
	return stored.ClickCount + tx.clicks[id], nil
}

func (tx *memoryTx) Append(ctx context.Context, event *model.ClickEvent) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if _, ok := tx.urls[event.URLID]; !ok {
		return fmt.Errorf("URL with ID %d: %w", event.URLID, apperrors.ErrURLNotFound)
	}

	// Как и sequence в Postgres, номер не возвращается при откате
	tx.nextEventID++
	event.ID = tx.nextEventID
	tx.events = append(tx.events, *event)

	return nil
}

// commit применяет все записи разом или ни одной, если ссылку успели удалить
func (tx *memoryTx) commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	for id := range tx.clicks {
		if _, ok := tx.urls[id]; !ok {
			return fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
		}
	}
	for _, e := range tx.events {
		if _, ok := tx.urls[e.URLID]; !ok {
			return fmt.Errorf("URL with ID %d: %w", e.URLID, apperrors.ErrURLNotFound)
		}
	}

	for id, n := range tx.clicks {
		tx.urls[id].ClickCount += n
	}
	tx.MemoryStore.events = append(tx.MemoryStore.events, tx.events...)

	return nil
}
