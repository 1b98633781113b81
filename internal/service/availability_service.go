package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type availabilityPilotStore interface {
	CountActiveByRank(ctx context.Context, rank models.PilotRank) (int, error)
}

type availabilityRequestStore interface {
	CountPilotsOnLeave(ctx context.Context, rank models.PilotRank, start, end time.Time, excludeRequestID string) (int, error)
	PilotOnLeave(ctx context.Context, pilotID string, start, end time.Time, excludeRequestID string) (bool, error)
}

// AvailabilityService computes per-rank crew availability over a date range.
type AvailabilityService struct {
	pilots   availabilityPilotStore
	requests availabilityRequestStore
	minimum  int
	logger   *zap.Logger
}

// NewAvailabilityService constructs the service. minimum is the per-rank
// staffing floor from configuration.
func NewAvailabilityService(pilots availabilityPilotStore, requests availabilityRequestStore, minimum int, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minimum <= 0 {
		minimum = 10
	}
	return &AvailabilityService{
		pilots:   pilots,
		requests: requests,
		minimum:  minimum,
		logger:   logger,
	}
}

// Evaluate computes crew availability for [start, end]. A pilot counts as
// unavailable when an APPROVED or pending leave request covers any day of the
// range. When candidate is non-nil the "after" numbers additionally subtract
// the candidate's prospective approval from its rank; the candidate's own row
// is excluded from the baseline so re-evaluating a stored request does not
// double count it, and a pilot already covered by another leave row is not
// subtracted a second time.
func (s *AvailabilityService) Evaluate(ctx context.Context, start, end time.Time, candidate *models.PilotRequest) (*models.CrewImpact, error) {
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	excludeID := ""
	if candidate != nil {
		excludeID = candidate.ID
	}

	captains, err := s.available(ctx, models.RankCaptain, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	firstOfficers, err := s.available(ctx, models.RankFirstOfficer, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	impact := &models.CrewImpact{
		CaptainsBefore:      captains,
		CaptainsAfter:       captains,
		FirstOfficersBefore: firstOfficers,
		FirstOfficersAfter:  firstOfficers,
		MinimumRequired:     s.minimum,
	}
	if candidate != nil && candidate.Category == models.CategoryLeave {
		covered := false
		if candidate.PilotID != "" {
			covered, err = s.requests.PilotOnLeave(ctx, candidate.PilotID, start, end, candidate.ID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pilot leave coverage")
			}
		}
		if !covered {
			switch candidate.Rank {
			case models.RankCaptain:
				impact.CaptainsAfter--
			case models.RankFirstOfficer:
				impact.FirstOfficersAfter--
			}
		}
	}
	impact.BelowMinimum = impact.CaptainsAfter < s.minimum || impact.FirstOfficersAfter < s.minimum
	return impact, nil
}

func (s *AvailabilityService) available(ctx context.Context, rank models.PilotRank, start, end time.Time, excludeID string) (int, error) {
	active, err := s.pilots.CountActiveByRank(ctx, rank)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active pilots")
	}
	onLeave, err := s.requests.CountPilotsOnLeave(ctx, rank, start, end, excludeID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pilots on leave")
	}
	available := active - onLeave
	if available < 0 {
		available = 0
	}
	return available, nil
}
