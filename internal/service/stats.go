package service

import (
	"context"
	"fmt"
	"time"

	"expenso/internal/logger"
	"expenso/internal/models"
	"expenso/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	recentExpensesLimit = 5
	monthlyWindowMonths = 6
)

const (
	kindDashboard  = "dashboard"
	kindCategories = "categories"
	kindMonthly    = "monthly"
)

// StatsService computes per-user aggregates, optionally read through a cache.
type StatsService struct {
	repo  repository.StatsRepo
	cache StatsCache
	log   *logger.Logger
	now   func() time.Time
}

func NewStatsService(repo repository.StatsRepo, cache StatsCache, log *logger.Logger, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{repo: repo, cache: cache, log: log, now: now}
}

// StatsKey is the cache key for one kind of aggregate of one user.
func StatsKey(kind string, userID int) string {
	return fmt.Sprintf("expenso:stats:%s:%d", kind, userID)
}

// Dashboard runs its four aggregate queries concurrently; the first failure
// cancels the others.
func (s *StatsService) Dashboard(ctx context.Context, userID int) (models.DashboardStats, error) {
	var out models.DashboardStats
	key := StatsKey(kindDashboard, userID)
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	monthStart, nextMonth := monthBounds(s.now())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.TotalSpent(gctx, userID)
		out.TotalExpenses = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.SpentBetween(gctx, userID, monthStart, nextMonth)
		out.MonthlyExpenses = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.CategoryCount(gctx, userID)
		out.TotalCategories = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.Recent(gctx, userID, recentExpensesLimit)
		out.RecentExpenses = v
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	if out.RecentExpenses == nil {
		out.RecentExpenses = []models.RecentExpense{}
	}

	s.toCache(ctx, key, out)
	return out, nil
}

func (s *StatsService) ByCategory(ctx context.Context, userID int) ([]models.CategoryStat, error) {
	var out []models.CategoryStat
	key := StatsKey(kindCategories, userID)
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	out, err := s.repo.ByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.CategoryStat{}
	}
	s.toCache(ctx, key, out)
	return out, nil
}

// Monthly returns per-month totals for expenses dated within the last six months.
func (s *StatsService) Monthly(ctx context.Context, userID int) ([]models.MonthlyStat, error) {
	var out []models.MonthlyStat
	key := StatsKey(kindMonthly, userID)
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	out, err := s.repo.Monthly(ctx, userID, monthsAgo(s.now(), monthlyWindowMonths))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.MonthlyStat{}
	}
	s.toCache(ctx, key, out)
	return out, nil
}

// Invalidate drops every cached aggregate of userID. Called after writes.
func (s *StatsService) Invalidate(ctx context.Context, userID int) {
	if s.cache == nil {
		return
	}
	keys := []string{
		StatsKey(kindDashboard, userID),
		StatsKey(kindCategories, userID),
		StatsKey(kindMonthly, userID),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil && s.log != nil {
		s.log.Warnw("stats_cache_invalidate_failed", "user_id", userID, "err", err)
	}
}

func (s *StatsService) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("stats_cache_get_failed", "key", key, "err", err)
		}
		return false
	}
	return hit
}

func (s *StatsService) toCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil && s.log != nil {
		s.log.Warnw("stats_cache_set_failed", "key", key, "err", err)
	}
}

// monthBounds returns the first day of t's month and of the following month.
func monthBounds(t time.Time) (models.Date, models.Date) {
	start := models.NewDate(t.Year(), t.Month(), 1)
	return start, models.DateOf(start.AddDate(0, 1, 0))
}

// monthsAgo steps back n calendar months, clamping the day to the target
// month's length (Aug 31 minus 6 months is Feb 28/29).
func monthsAgo(t time.Time, n int) models.Date {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return models.NewDate(first.Year(), first.Month(), day)
}
