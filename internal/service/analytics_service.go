package service

import (
	"context"
	"fmt"
	"math"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kosench/shortlink-analytics/internal/model"
	"github.com/Kosench/shortlink-analytics/internal/repository"
)

// dayLabelLayout - подпись дня в дневной статистике ("Jan 2")
const dayLabelLayout = "Jan 2"

type AnalyticsService struct {
	urls     repository.URLStore
	events   repository.EventStore
	accounts repository.AccountStore
	logger   *zap.Logger
}

func NewAnalyticsService(urls repository.URLStore, events repository.EventStore, accounts repository.AccountStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		urls:     urls,
		events:   events,
		accounts: accounts,
		logger:   logger,
	}
}

// GetOverview собирает сводку по всем ссылкам владельца
func (s *AnalyticsService) GetOverview(ctx context.Context, ownerID string) (*model.AnalyticsSnapshot, error) {
	if _, err := s.accounts.GetAccount(ctx, ownerID); err != nil {
		return nil, err
	}

	urls, err := s.urls.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}

	ids := lo.Map(urls, func(u *model.URL, _ int) int64 { return u.ID })

	var (
		total     int64
		days      []model.DayCount
		devices   []model.LabelCount
		referrers []model.LabelCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.events.CountTotal(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.events.CountByDay(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		devices, err = s.events.CountByDevice(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		referrers, err = s.events.CountByReferrer(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("analytics aggregation failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate clicks: %w", err)
	}

	breakdown := lo.Map(urls, func(u *model.URL, _ int) model.URLBreakdown { return toBreakdown(u) })

	snapshot := &model.AnalyticsSnapshot{
		TotalClicks: total,
		TotalURLs:   len(urls),
		DailyClicks: lo.Map(days, func(d model.DayCount, _ int) model.DailyClicks {
			return model.DailyClicks{Date: d.Day.Format(dayLabelLayout), Clicks: d.Count}
		}),
		Devices:   distribution(devices),
		Referrers: distribution(referrers),
		Breakdown: breakdown,
	}

	if len(urls) > 0 {
		// Строгое сравнение: при равенстве остается более ранняя ссылка
		top := lo.MaxBy(urls, func(a, b *model.URL) bool { return a.ClickCount > b.ClickCount })
		topBreakdown := toBreakdown(top)
		snapshot.TopURL = &topBreakdown
	}

	return snapshot, nil
}

// distribution переводит счетчики в проценты от их суммы
func distribution(counts []model.LabelCount) []model.Distribution {
	sum := lo.SumBy(counts, func(c model.LabelCount) int64 { return c.Count })

	return lo.Map(counts, func(c model.LabelCount, _ int) model.Distribution {
		return model.Distribution{Name: c.Label, Percentage: percentage(c.Count, sum)}
	})
}

func percentage(count, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(count) * 100 / float64(total)))
}

func toBreakdown(u *model.URL) model.URLBreakdown {
	return model.URLBreakdown{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		ClickCount:  u.ClickCount,
	}
}
