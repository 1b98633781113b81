package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type requestStore interface {
	Create(ctx context.Context, request *models.PilotRequest) error
	GetByID(ctx context.Context, id string) (*models.PilotRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.PilotRequest, error)
	Delete(ctx context.Context, id string) error
}

type pilotResolver interface {
	GetByID(ctx context.Context, id string) (*models.Pilot, error)
}

type conflictChecker interface {
	CheckConflicts(ctx context.Context, candidate *models.PilotRequest) (*models.ConflictReport, error)
}

// RequestServiceConfig carries submission policy knobs.
type RequestServiceConfig struct {
	// LateNoticeDays flags submissions with less advance notice as late.
	LateNoticeDays int
	// DeadlineDays flags submissions past the roster planning cutoff.
	DeadlineDays int
}

// RequestService handles request intake, retrieval, and removal. Review
// transitions live in WorkflowService.
type RequestService struct {
	repo      requestStore
	pilots    pilotResolver
	conflicts conflictChecker
	audit     auditLogger
	cfg       RequestServiceConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewRequestService constructs the service.
func NewRequestService(repo requestStore, pilots pilotResolver, conflicts conflictChecker, audit auditLogger, cfg RequestServiceConfig, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LateNoticeDays <= 0 {
		cfg.LateNoticeDays = 21
	}
	if cfg.DeadlineDays <= 0 {
		cfg.DeadlineDays = 10
	}
	return &RequestService{
		repo:      repo,
		pilots:    pilots,
		conflicts: conflicts,
		audit:     audit,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a new request. Pilots always submit for
// themselves; admins may submit on a pilot's behalf (walk-ins, email, phone).
// Pilots may park the request as a draft instead; drafts stay out of the
// review queue until the pilot submits them. Conflicts found at submission
// are recorded as advisory flags, never a rejection; the reviewer decides.
func (s *RequestService) Submit(ctx context.Context, req dto.SubmitRequest, actor *models.JWTClaims) (*models.PilotRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	pilotID := strings.TrimSpace(req.PilotID)
	channel := req.Channel
	if actor.Role == models.RolePilot {
		pilotID = actor.Pilot()
		channel = models.ChannelPilotPortal
	}
	if pilotID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pilot_id is required")
	}
	if req.Draft && actor.Role != models.RolePilot {
		return nil, appErrors.Clone(appErrors.ErrValidation, "drafts are only supported when submitting for yourself")
	}
	if channel == "" {
		channel = models.ChannelAdminPortal
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported request type")
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	pilot, err := s.pilots.GetByID(ctx, pilotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pilot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pilot")
	}
	if !pilot.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "pilot is inactive")
	}

	submitted := s.now()
	notice := calendarDaysBetween(submitted, start)
	request := &models.PilotRequest{
		PilotID:        pilot.ID,
		EmployeeNumber: pilot.EmployeeNumber,
		Rank:           pilot.Rank,
		Category:       req.Type.Category(),
		Type:           req.Type,
		StartDate:      start,
		DaysCount:      int(end.Sub(start).Hours()/24) + 1,
		RosterPeriods:  models.RosterPeriodCodes(start, end),
		Channel:        channel,
		SubmissionDate: submitted,
		IsLateRequest:  notice < s.cfg.LateNoticeDays,
		IsPastDeadline: notice < s.cfg.DeadlineDays,
		Status:         models.StatusSubmitted,
	}
	if req.Draft {
		request.Status = models.StatusDraft
	}
	if !end.Equal(start) {
		request.EndDate = &end
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		request.Reason = &reason
	}
	request.PriorityScore = priorityScore(pilot.SeniorityNumber, request.IsLateRequest, request.IsPastDeadline)

	if s.conflicts != nil {
		report, err := s.conflicts.CheckConflicts(ctx, request)
		if err != nil {
			return nil, err
		}
		for _, c := range report.Conflicts {
			request.ConflictFlags = append(request.ConflictFlags, string(c.Type))
		}
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionRequestSubmit, request)
	return request, nil
}

// Get loads one request enforcing pilot scoping.
func (s *RequestService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.PilotRequest, error) {
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
	if actor.Role == models.RolePilot && request.PilotID != actor.Pilot() {
		return nil, appErrors.ErrForbidden
	}
	return request, nil
}

// List returns requests visible to the actor. Pilots see their own; admins
// see the full review queue ordered by priority.
func (s *RequestService) List(ctx context.Context, query dto.RequestQuery, actor *models.JWTClaims) ([]models.PilotRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.RequestFilter{
		PilotID:      query.PilotID,
		Statuses:     query.Statuses,
		Category:     query.Category,
		Type:         query.Type,
		RosterPeriod: query.RosterPeriod,
		LateOnly:     query.LateOnly,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}
	if actor.Role == models.RolePilot {
		filter.PilotID = actor.Pilot()
	}
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// Delete removes a request entirely. Reviewer roles may delete any request
// for data hygiene; pilots may only discard their own drafts (withdrawal is
// the workflow exit for submitted requests).
func (s *RequestService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if !actor.Role.Reviewer() {
		if actor.Role != models.RolePilot || request.PilotID != actor.Pilot() || request.Status != models.StatusDraft {
			return appErrors.ErrForbidden
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete request")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionRequestDelete, request)
	return nil
}

// CheckConflicts previews conflicts for a prospective request without storing
// anything.
func (s *RequestService) CheckConflicts(ctx context.Context, req dto.SubmitRequest, actor *models.JWTClaims) (*models.ConflictReport, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	pilotID := strings.TrimSpace(req.PilotID)
	if actor.Role == models.RolePilot {
		pilotID = actor.Pilot()
	}
	if pilotID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pilot_id is required")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported request type")
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	pilot, err := s.pilots.GetByID(ctx, pilotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pilot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pilot")
	}
	candidate := &models.PilotRequest{
		PilotID:   pilot.ID,
		Rank:      pilot.Rank,
		Category:  req.Type.Category(),
		Type:      req.Type,
		StartDate: start,
	}
	if !end.Equal(start) {
		candidate.EndDate = &end
	}
	return s.conflicts.CheckConflicts(ctx, candidate)
}

func (s *RequestService) emitAudit(ctx context.Context, userID, action string, request *models.PilotRequest) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(request)
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "pilot_request",
		ResourceID: &request.ID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "request-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

// priorityScore ranks the review queue. Senior pilots (lower seniority number)
// rank higher; late and past-deadline submissions are penalized.
func priorityScore(seniorityNumber int, late, pastDeadline bool) int {
	score := 1000 - seniorityNumber
	if late {
		score -= 100
	}
	if pastDeadline {
		score -= 200
	}
	if score < 0 {
		score = 0
	}
	return score
}

// calendarDaysBetween counts whole calendar days from one date to another,
// ignoring the time of day. A submission made any time on day zero for a start
// N days later gives N days' notice.
func calendarDaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(startRaw))
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	end := start
	if strings.TrimSpace(endRaw) != "" {
		end, err = time.Parse("2006-01-02", strings.TrimSpace(endRaw))
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	return start, end, nil
}
