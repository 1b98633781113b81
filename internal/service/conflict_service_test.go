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

type stubConflictStore struct {
	overlaps  []models.PilotRequest
	duplicate *models.PilotRequest
	pending   int
}

func (s *stubConflictStore) ListOverlapping(ctx context.Context, pilotID string, start, end time.Time, excludeID string) ([]models.PilotRequest, error) {
	return s.overlaps, nil
}

func (s *stubConflictStore) CountPending(ctx context.Context, pilotID, excludeID string) (int, error) {
	return s.pending, nil
}

func (s *stubConflictStore) FindDuplicate(ctx context.Context, pilotID string, reqType models.RequestType, start, end time.Time, excludeID string) (*models.PilotRequest, error) {
	return s.duplicate, nil
}

func conflictCandidate() *models.PilotRequest {
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return &models.PilotRequest{
		PilotID:   "pilot-1",
		Rank:      models.RankCaptain,
		Category:  models.CategoryLeave,
		Type:      models.RequestTypeAnnual,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}
}

func findConflict(report *models.ConflictReport, kind models.ConflictType) *models.Conflict {
	for i := range report.Conflicts {
		if report.Conflicts[i].Type == kind {
			return &report.Conflicts[i]
		}
	}
	return nil
}

func TestConflictOverlapSeverities(t *testing.T) {
	store := &stubConflictStore{
		overlaps: []models.PilotRequest{
			{ID: "other-1", Status: models.StatusSubmitted, StartDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
			{ID: "other-2", Status: models.StatusApproved, StartDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := NewConflictService(store, &stubCrew{}, zap.NewNop())

	report, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	assert.True(t, report.HasConflict)

	var severities []models.ConflictSeverity
	for _, c := range report.Conflicts {
		if c.Type == models.ConflictOverlappingRequest {
			severities = append(severities, c.Severity)
		}
	}
	assert.ElementsMatch(t, []models.ConflictSeverity{models.SeverityMedium, models.SeverityHigh}, severities)
	assert.False(t, report.HasBlocking())
}

func TestConflictSharedBoundaryDayOverlaps(t *testing.T) {
	// existing approved request starts the day the candidate ends
	boundaryEnd := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	store := &stubConflictStore{
		overlaps: []models.PilotRequest{
			{ID: "other-3", Status: models.StatusApproved, StartDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), EndDate: &boundaryEnd},
		},
	}
	svc := NewConflictService(store, &stubCrew{}, zap.NewNop())

	end := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	candidate := &models.PilotRequest{
		PilotID:   "pilot-1",
		Category:  models.CategoryLeave,
		Type:      models.RequestTypeAnnual,
		StartDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}
	report, err := svc.CheckConflicts(context.Background(), candidate)
	require.NoError(t, err)
	found := findConflict(report, models.ConflictOverlappingRequest)
	require.NotNil(t, found)
	assert.Equal(t, models.SeverityHigh, found.Severity)
}

func TestConflictNonOverlappingRowIgnored(t *testing.T) {
	// a store row outside the candidate range must not be reported
	store := &stubConflictStore{
		overlaps: []models.PilotRequest{
			{ID: "other-4", Status: models.StatusSubmitted, StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := NewConflictService(store, &stubCrew{}, zap.NewNop())

	report, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	assert.Nil(t, findConflict(report, models.ConflictOverlappingRequest))
}

func TestConflictDuplicateIsHigh(t *testing.T) {
	store := &stubConflictStore{duplicate: &models.PilotRequest{ID: "dup-1"}}
	svc := NewConflictService(store, &stubCrew{}, zap.NewNop())

	report, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	found := findConflict(report, models.ConflictDuplicateRequest)
	require.NotNil(t, found)
	assert.Equal(t, models.SeverityHigh, found.Severity)
	assert.Equal(t, "dup-1", found.Details["request_id"])
}

func TestConflictMultiplePendingIsInformational(t *testing.T) {
	store := &stubConflictStore{pending: 2}
	svc := NewConflictService(store, &stubCrew{}, zap.NewNop())

	report, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	found := findConflict(report, models.ConflictMultiplePending)
	require.NotNil(t, found)
	assert.Equal(t, models.SeverityLow, found.Severity)
	assert.False(t, report.HasBlocking())
}

func TestConflictCrewBelowMinimumBlocks(t *testing.T) {
	crew := &stubCrew{impact: &models.CrewImpact{
		CaptainsBefore: 10, CaptainsAfter: 9,
		FirstOfficersBefore: 14, FirstOfficersAfter: 14,
		MinimumRequired: 10, BelowMinimum: true,
	}}
	svc := NewConflictService(&stubConflictStore{}, crew, zap.NewNop())

	report, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	found := findConflict(report, models.ConflictCrewBelowMinimum)
	require.NotNil(t, found)
	assert.Equal(t, models.SeverityCritical, found.Severity)
	assert.True(t, report.HasBlocking())
}

func TestConflictFlightRequestSkipsCrewCheck(t *testing.T) {
	crew := &stubCrew{impact: &models.CrewImpact{BelowMinimum: true}}
	svc := NewConflictService(&stubConflictStore{}, crew, zap.NewNop())

	candidate := conflictCandidate()
	candidate.Category = models.CategoryFlight
	candidate.Type = models.RequestTypeSDO

	report, err := svc.CheckConflicts(context.Background(), candidate)
	require.NoError(t, err)
	assert.Zero(t, crew.calls)
	assert.False(t, report.HasConflict)
}

func TestConflictCleanCandidate(t *testing.T) {
	svc := NewConflictService(&stubConflictStore{}, &stubCrew{}, zap.NewNop())

	report, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	assert.False(t, report.HasConflict)
	assert.Empty(t, report.Conflicts)

	// same inputs, same answer
	again, err := svc.CheckConflicts(context.Background(), conflictCandidate())
	require.NoError(t, err)
	assert.Equal(t, report, again)
}
