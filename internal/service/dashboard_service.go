package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/repository"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type requestAggregator interface {
	CountByStatus(ctx context.Context) ([]repository.StatusCount, error)
	CountByCategory(ctx context.Context) ([]repository.CategoryCount, error)
	CountPendingByRosterPeriod(ctx context.Context) ([]repository.PeriodCount, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
	// AvailabilityWindowDays is the horizon for the availability snapshot.
	AvailabilityWindowDays int
}

// DashboardService composes the admin operations overview: request counts by
// status and category, the pending backlog per roster period, and a crew
// availability snapshot for the coming window. Payloads are cached in Redis.
type DashboardService struct {
	requests requestAggregator
	crew     crewEvaluator
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs the service with sane defaults.
func NewDashboardService(requests requestAggregator, crew crewEvaluator, cache *CacheService, cfg DashboardServiceConfig, logger *zap.Logger) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.AvailabilityWindowDays <= 0 {
		cfg.AvailabilityWindowDays = 28
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		requests: requests,
		crew:     crew,
		cache:    cache,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		cfg:      cfg,
	}
}

const dashboardStatsCacheKey = "dash:stats"

// Stats returns the operations overview and indicates cache utilisation.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, bool, error) {
	if s.cache.Enabled() {
		var cached dto.DashboardStatsResponse
		hit, err := s.cache.Get(ctx, dashboardStatsCacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	stats, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, dashboardStatsCacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}

// Invalidate drops the cached overview. Called after state-changing
// operations so reviewers see fresh counts.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardStatsCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	byStatus, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count requests by status")
	}
	byCategory, err := s.requests.CountByCategory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count requests by category")
	}
	byPeriod, err := s.requests.CountPendingByRosterPeriod(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending requests by roster period")
	}

	stats := &dto.DashboardStatsResponse{
		ByStatus:        make([]dto.StatusBucket, 0, len(byStatus)),
		ByCategory:      make([]dto.CategoryBucket, 0, len(byCategory)),
		PendingByPeriod: make([]dto.PeriodBucket, 0, len(byPeriod)),
	}
	for _, row := range byStatus {
		stats.ByStatus = append(stats.ByStatus, dto.StatusBucket{Status: row.Status, Count: row.Count})
	}
	for _, row := range byCategory {
		stats.ByCategory = append(stats.ByCategory, dto.CategoryBucket{Category: row.Category, Count: row.Count})
	}
	for _, row := range byPeriod {
		stats.PendingByPeriod = append(stats.PendingByPeriod, dto.PeriodBucket{Period: row.Period, Count: row.Count})
	}

	if s.crew != nil {
		start := s.now().Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, s.cfg.AvailabilityWindowDays)
		impact, err := s.crew.Evaluate(ctx, start, end, nil)
		if err != nil {
			return nil, err
		}
		stats.Availability = dto.AvailabilityStats{
			CaptainsAvailable:      impact.CaptainsBefore,
			FirstOfficersAvailable: impact.FirstOfficersBefore,
			MinimumRequired:        impact.MinimumRequired,
			BelowMinimum:           impact.BelowMinimum,
		}
	}
	return stats, nil
}
