package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/repository"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type workflowRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.PilotRequest, error)
	UpdateStatus(ctx context.Context, params repository.UpdateRequestStatusParams) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// TransitionNotifier is told about every committed workflow transition so it
// can fan out pilot notifications. Failures must not roll back the transition.
type TransitionNotifier interface {
	NotifyTransition(ctx context.Context, request *models.PilotRequest)
}

// TransitionRecorder receives committed transitions for instrumentation.
type TransitionRecorder interface {
	RecordWorkflowTransition(from, to models.RequestStatus, forced bool)
}

// WorkflowService owns the request status machine. Transitions are guarded at
// the database level so two reviewers racing on the same request resolve to a
// single winner; the loser sees a conflict error.
type WorkflowService struct {
	repo     workflowRequestStore
	crew     crewEvaluator
	audit    auditLogger
	notifier TransitionNotifier
	recorder TransitionRecorder
	logger   *zap.Logger
}

// WorkflowServiceOption configures the service.
type WorkflowServiceOption func(*WorkflowService)

// WithTransitionNotifier attaches the notification fan-out.
func WithTransitionNotifier(n TransitionNotifier) WorkflowServiceOption {
	return func(s *WorkflowService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithTransitionRecorder attaches metrics instrumentation.
func WithTransitionRecorder(r TransitionRecorder) WorkflowServiceOption {
	return func(s *WorkflowService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewWorkflowService constructs the service.
func NewWorkflowService(repo workflowRequestStore, crew crewEvaluator, audit auditLogger, logger *zap.Logger, opts ...WorkflowServiceOption) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &WorkflowService{
		repo:   repo,
		crew:   crew,
		audit:  audit,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// allowedFrom returns the source statuses a transition may start from.
func allowedFrom(target models.RequestStatus) []models.RequestStatus {
	switch target {
	case models.StatusSubmitted:
		return []models.RequestStatus{models.StatusDraft}
	case models.StatusInReview:
		return []models.RequestStatus{models.StatusSubmitted}
	case models.StatusApproved, models.StatusDenied, models.StatusWithdrawn:
		return []models.RequestStatus{models.StatusSubmitted, models.StatusInReview}
	default:
		return nil
	}
}

// Transition moves a request to the target status on behalf of the actor.
// Reviewer identity and timestamps are stamped server-side; client-supplied
// values are never trusted. Denials require comments. Approvals of leave
// requests run the crew-minimum gate unless force is set, which requires a
// reviewer role and leaves an audit trail of its own. Submitting a draft and
// withdrawing are the two pilot-initiated moves; neither stamps reviewer
// fields.
func (s *WorkflowService) Transition(ctx context.Context, id string, req dto.ReviewRequest, actor *models.JWTClaims) (*models.PilotRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}

	target := req.Status
	from := allowedFrom(target)
	if from == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot transition to %s", target))
	}
	if request.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrTerminalStatus, fmt.Sprintf("request is already %s", request.Status))
	}
	if !statusIn(request.Status, from) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move %s to %s", request.Status, target))
	}
	if err := s.authorize(request, target, actor); err != nil {
		return nil, err
	}

	comments := strings.TrimSpace(req.Comments)
	if target == models.StatusDenied && comments == "" {
		return nil, appErrors.Clone(appErrors.ErrCommentsRequired, "denial requires review comments")
	}

	forced := false
	if target == models.StatusApproved && request.Category == models.CategoryLeave && s.crew != nil {
		impact, err := s.crew.Evaluate(ctx, request.StartDate, request.EffectiveEnd(), request)
		if err != nil {
			return nil, err
		}
		if impact.BelowMinimum {
			if !req.Force {
				return nil, appErrors.Clone(appErrors.ErrCrewBelowMinimum,
					fmt.Sprintf("approval would leave %d captains and %d first officers against a floor of %d",
						impact.CaptainsAfter, impact.FirstOfficersAfter, impact.MinimumRequired))
			}
			forced = true
		}
	}

	now := time.Now().UTC()
	params := repository.UpdateRequestStatusParams{
		ID:          request.ID,
		Status:      target,
		AllowedFrom: from,
	}
	if target != models.StatusWithdrawn && target != models.StatusSubmitted {
		reviewerID := actor.UserID
		params.ReviewedBy = &reviewerID
		params.ReviewedAt = &now
	}
	if comments != "" {
		params.Comments = &comments
	}
	if err := s.repo.UpdateStatus(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "request was reviewed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request status")
	}

	previous := request.Status
	request.Status = target
	request.UpdatedAt = now
	if params.ReviewedBy != nil {
		request.ReviewedBy = params.ReviewedBy
		request.ReviewedAt = params.ReviewedAt
	}
	if params.Comments != nil {
		request.ReviewComments = params.Comments
	}

	s.emitAudit(ctx, request, previous, actor, forced)
	if s.recorder != nil {
		s.recorder.RecordWorkflowTransition(previous, target, forced)
	}
	if s.notifier != nil {
		s.notifier.NotifyTransition(ctx, request)
	}
	return request, nil
}

func (s *WorkflowService) authorize(request *models.PilotRequest, target models.RequestStatus, actor *models.JWTClaims) error {
	if target == models.StatusWithdrawn {
		if actor.Role != models.RolePilot {
			return appErrors.Clone(appErrors.ErrForbidden, "only the submitting pilot may withdraw")
		}
		if actor.Pilot() != request.PilotID {
			return appErrors.Clone(appErrors.ErrForbidden, "pilots may only withdraw their own requests")
		}
		return nil
	}
	if target == models.StatusSubmitted {
		if actor.Role != models.RolePilot || actor.Pilot() != request.PilotID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the owning pilot may submit a draft")
		}
		return nil
	}
	if !actor.Role.Reviewer() {
		return appErrors.ErrForbidden
	}
	return nil
}

func (s *WorkflowService) emitAudit(ctx context.Context, request *models.PilotRequest, previous models.RequestStatus, actor *models.JWTClaims, forced bool) {
	if s.audit == nil {
		return
	}
	action := models.AuditActionRequestReview
	switch {
	case request.Status == models.StatusSubmitted:
		action = models.AuditActionRequestSubmit
	case request.Status == models.StatusWithdrawn:
		action = models.AuditActionRequestWithdraw
	case forced:
		action = models.AuditActionForceApprove
	}
	change, _ := json.Marshal(map[string]string{
		"from": string(previous),
		"to":   string(request.Status),
	})
	userID := actor.UserID
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "pilot_request",
		ResourceID: &request.ID,
		NewValues:  change,
		IPAddress:  "system",
		UserAgent:  "workflow-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func statusIn(status models.RequestStatus, set []models.RequestStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
