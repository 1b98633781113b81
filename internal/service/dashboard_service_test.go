package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/repository"
)

type stubAggregator struct {
	byStatus   []repository.StatusCount
	byCategory []repository.CategoryCount
	byPeriod   []repository.PeriodCount
	calls      int
}

func (s *stubAggregator) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	s.calls++
	return s.byStatus, nil
}

func (s *stubAggregator) CountByCategory(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.byCategory, nil
}

func (s *stubAggregator) CountPendingByRosterPeriod(ctx context.Context) ([]repository.PeriodCount, error) {
	return s.byPeriod, nil
}

func TestDashboardStatsComposition(t *testing.T) {
	aggregator := &stubAggregator{
		byStatus: []repository.StatusCount{
			{Status: models.StatusSubmitted, Count: 7},
			{Status: models.StatusApproved, Count: 12},
		},
		byCategory: []repository.CategoryCount{{Category: models.CategoryLeave, Count: 15}},
		byPeriod:   []repository.PeriodCount{{Period: "RP11/2025", Count: 4}},
	}
	crew := &stubCrew{impact: &models.CrewImpact{
		CaptainsBefore: 14, CaptainsAfter: 14,
		FirstOfficersBefore: 11, FirstOfficersAfter: 11,
		MinimumRequired: 10,
	}}
	svc := NewDashboardService(aggregator, crew, nil, DashboardServiceConfig{}, zap.NewNop())

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, stats.ByStatus, 2)
	assert.Equal(t, models.StatusSubmitted, stats.ByStatus[0].Status)
	assert.Equal(t, 7, stats.ByStatus[0].Count)
	require.Len(t, stats.PendingByPeriod, 1)
	assert.Equal(t, "RP11/2025", stats.PendingByPeriod[0].Period)
	assert.Equal(t, 14, stats.Availability.CaptainsAvailable)
	assert.Equal(t, 11, stats.Availability.FirstOfficersAvailable)
	assert.False(t, stats.Availability.BelowMinimum)
}

func TestDashboardStatsWithoutCacheRecomputes(t *testing.T) {
	aggregator := &stubAggregator{}
	svc := NewDashboardService(aggregator, &stubCrew{}, nil, DashboardServiceConfig{}, zap.NewNop())

	_, _, err := svc.Stats(context.Background())
	require.NoError(t, err)
	_, _, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, aggregator.calls)
}
