package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type conflictRequestStore interface {
	ListOverlapping(ctx context.Context, pilotID string, start, end time.Time, excludeID string) ([]models.PilotRequest, error)
	CountPending(ctx context.Context, pilotID, excludeID string) (int, error)
	FindDuplicate(ctx context.Context, pilotID string, reqType models.RequestType, start, end time.Time, excludeID string) (*models.PilotRequest, error)
}

type crewEvaluator interface {
	Evaluate(ctx context.Context, start, end time.Time, candidate *models.PilotRequest) (*models.CrewImpact, error)
}

// conflictSeverityPolicy maps each conflict type to its baseline severity.
// Overlaps with an already APPROVED request escalate to HIGH.
var conflictSeverityPolicy = map[models.ConflictType]models.ConflictSeverity{
	models.ConflictOverlappingRequest: models.SeverityMedium,
	models.ConflictDuplicateRequest:   models.SeverityHigh,
	models.ConflictMultiplePending:    models.SeverityLow,
	models.ConflictCrewBelowMinimum:   models.SeverityCritical,
}

// ConflictService evaluates a candidate request against existing data. All
// checks are reads; calling CheckConflicts twice with the same inputs yields
// the same report.
type ConflictService struct {
	requests conflictRequestStore
	crew     crewEvaluator
	logger   *zap.Logger
}

// NewConflictService constructs the service.
func NewConflictService(requests conflictRequestStore, crew crewEvaluator, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{requests: requests, crew: crew, logger: logger}
}

// CheckConflicts evaluates the candidate request. The candidate may be unsaved
// (empty ID) when previewing before submission, or a stored row during review;
// the candidate's own row is always excluded from matches.
func (s *ConflictService) CheckConflicts(ctx context.Context, candidate *models.PilotRequest) (*models.ConflictReport, error) {
	if candidate == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "candidate request is required")
	}
	start := candidate.StartDate
	end := candidate.EffectiveEnd()
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}

	report := &models.ConflictReport{Conflicts: []models.Conflict{}}

	overlaps, err := s.requests.ListOverlapping(ctx, candidate.PilotID, start, end, candidate.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check overlapping requests")
	}
	for _, other := range overlaps {
		// Inclusive boundary semantics are decided here; a row sharing only the
		// start or end day still conflicts.
		if !other.Overlaps(start, end) {
			continue
		}
		severity := conflictSeverityPolicy[models.ConflictOverlappingRequest]
		if other.Status == models.StatusApproved {
			severity = models.SeverityHigh
		}
		report.Conflicts = append(report.Conflicts, models.Conflict{
			Type:     models.ConflictOverlappingRequest,
			Severity: severity,
			Message:  fmt.Sprintf("overlaps %s request %s (%s)", other.Status, other.ID, formatRange(other.StartDate, other.EffectiveEnd())),
			Details: map[string]string{
				"request_id": other.ID,
				"status":     string(other.Status),
				"type":       string(other.Type),
			},
		})
	}

	duplicate, err := s.requests.FindDuplicate(ctx, candidate.PilotID, candidate.Type, start, end, candidate.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicate requests")
	}
	if duplicate != nil {
		report.Conflicts = append(report.Conflicts, models.Conflict{
			Type:     models.ConflictDuplicateRequest,
			Severity: conflictSeverityPolicy[models.ConflictDuplicateRequest],
			Message:  fmt.Sprintf("duplicate of request %s with identical type and dates", duplicate.ID),
			Details:  map[string]string{"request_id": duplicate.ID},
		})
	}

	pending, err := s.requests.CountPending(ctx, candidate.PilotID, candidate.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending requests")
	}
	if pending > 0 {
		report.Conflicts = append(report.Conflicts, models.Conflict{
			Type:     models.ConflictMultiplePending,
			Severity: conflictSeverityPolicy[models.ConflictMultiplePending],
			Message:  fmt.Sprintf("pilot has %d other pending request(s)", pending),
			Details:  map[string]string{"pending_count": fmt.Sprintf("%d", pending)},
		})
	}

	if candidate.Category == models.CategoryLeave && s.crew != nil {
		impact, err := s.crew.Evaluate(ctx, start, end, candidate)
		if err != nil {
			return nil, err
		}
		if impact.BelowMinimum {
			report.Conflicts = append(report.Conflicts, models.Conflict{
				Type:     models.ConflictCrewBelowMinimum,
				Severity: conflictSeverityPolicy[models.ConflictCrewBelowMinimum],
				Message: fmt.Sprintf("approval would leave %d captains and %d first officers against a floor of %d",
					impact.CaptainsAfter, impact.FirstOfficersAfter, impact.MinimumRequired),
				Details: map[string]string{
					"captains_after":       fmt.Sprintf("%d", impact.CaptainsAfter),
					"first_officers_after": fmt.Sprintf("%d", impact.FirstOfficersAfter),
					"minimum_required":     fmt.Sprintf("%d", impact.MinimumRequired),
				},
			})
		}
	}

	report.HasConflict = len(report.Conflicts) > 0
	return report, nil
}

func formatRange(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}
