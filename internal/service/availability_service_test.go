package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

type stubPilotCounts struct {
	active map[models.PilotRank]int
}

func (s *stubPilotCounts) CountActiveByRank(ctx context.Context, rank models.PilotRank) (int, error) {
	return s.active[rank], nil
}

type stubLeaveCounts struct {
	onLeave      map[models.PilotRank]int
	coveredPilot string
	excludeID    string
}

func (s *stubLeaveCounts) CountPilotsOnLeave(ctx context.Context, rank models.PilotRank, start, end time.Time, excludeRequestID string) (int, error) {
	s.excludeID = excludeRequestID
	return s.onLeave[rank], nil
}

func (s *stubLeaveCounts) PilotOnLeave(ctx context.Context, pilotID string, start, end time.Time, excludeRequestID string) (bool, error) {
	return pilotID == s.coveredPilot, nil
}

func TestAvailabilityEvaluateWithoutCandidate(t *testing.T) {
	pilots := &stubPilotCounts{active: map[models.PilotRank]int{models.RankCaptain: 20, models.RankFirstOfficer: 18}}
	requests := &stubLeaveCounts{onLeave: map[models.PilotRank]int{models.RankCaptain: 5, models.RankFirstOfficer: 3}}
	svc := NewAvailabilityService(pilots, requests, 10, zap.NewNop())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	impact, err := svc.Evaluate(context.Background(), start, start.AddDate(0, 0, 13), nil)
	require.NoError(t, err)
	assert.Equal(t, 15, impact.CaptainsBefore)
	assert.Equal(t, 15, impact.CaptainsAfter)
	assert.Equal(t, 15, impact.FirstOfficersBefore)
	assert.Equal(t, 15, impact.FirstOfficersAfter)
	assert.Equal(t, 10, impact.MinimumRequired)
	assert.False(t, impact.BelowMinimum)
}

func TestAvailabilityCandidateDecrementsOwnRank(t *testing.T) {
	pilots := &stubPilotCounts{active: map[models.PilotRank]int{models.RankCaptain: 16, models.RankFirstOfficer: 16}}
	requests := &stubLeaveCounts{onLeave: map[models.PilotRank]int{models.RankCaptain: 6, models.RankFirstOfficer: 0}}
	svc := NewAvailabilityService(pilots, requests, 10, zap.NewNop())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candidate := &models.PilotRequest{
		ID:        "req-7",
		Rank:      models.RankCaptain,
		Category:  models.CategoryLeave,
		StartDate: start,
	}
	impact, err := svc.Evaluate(context.Background(), start, start, candidate)
	require.NoError(t, err)
	assert.Equal(t, 10, impact.CaptainsBefore)
	assert.Equal(t, 9, impact.CaptainsAfter)
	assert.Equal(t, 16, impact.FirstOfficersAfter)
	assert.True(t, impact.BelowMinimum)
	assert.Equal(t, "req-7", requests.excludeID)
}

func TestAvailabilityPilotAlreadyOnLeaveNotSubtractedTwice(t *testing.T) {
	pilots := &stubPilotCounts{active: map[models.PilotRank]int{models.RankCaptain: 11, models.RankFirstOfficer: 14}}
	requests := &stubLeaveCounts{
		onLeave:      map[models.PilotRank]int{models.RankCaptain: 1},
		coveredPilot: "pilot-1",
	}
	svc := NewAvailabilityService(pilots, requests, 10, zap.NewNop())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candidate := &models.PilotRequest{
		ID:        "req-2",
		PilotID:   "pilot-1",
		Rank:      models.RankCaptain,
		Category:  models.CategoryLeave,
		StartDate: start,
	}
	impact, err := svc.Evaluate(context.Background(), start, start.AddDate(0, 0, 6), candidate)
	require.NoError(t, err)
	assert.Equal(t, 10, impact.CaptainsBefore)
	assert.Equal(t, 10, impact.CaptainsAfter)
	assert.False(t, impact.BelowMinimum)
}

func TestAvailabilityFlightCandidateDoesNotCount(t *testing.T) {
	pilots := &stubPilotCounts{active: map[models.PilotRank]int{models.RankCaptain: 12, models.RankFirstOfficer: 12}}
	requests := &stubLeaveCounts{onLeave: map[models.PilotRank]int{}}
	svc := NewAvailabilityService(pilots, requests, 10, zap.NewNop())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candidate := &models.PilotRequest{Rank: models.RankCaptain, Category: models.CategoryFlight, StartDate: start}
	impact, err := svc.Evaluate(context.Background(), start, start, candidate)
	require.NoError(t, err)
	assert.Equal(t, impact.CaptainsBefore, impact.CaptainsAfter)
}

func TestAvailabilityClampsNegative(t *testing.T) {
	pilots := &stubPilotCounts{active: map[models.PilotRank]int{models.RankCaptain: 2, models.RankFirstOfficer: 2}}
	requests := &stubLeaveCounts{onLeave: map[models.PilotRank]int{models.RankCaptain: 5, models.RankFirstOfficer: 5}}
	svc := NewAvailabilityService(pilots, requests, 10, zap.NewNop())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	impact, err := svc.Evaluate(context.Background(), start, start, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, impact.CaptainsBefore)
	assert.True(t, impact.BelowMinimum)
}

func TestAvailabilityRejectsInvertedRange(t *testing.T) {
	svc := NewAvailabilityService(&stubPilotCounts{}, &stubLeaveCounts{}, 10, zap.NewNop())
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Evaluate(context.Background(), start, start.AddDate(0, 0, -1), nil)
	require.Error(t, err)
}
