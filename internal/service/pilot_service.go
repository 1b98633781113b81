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

type pilotStore interface {
	Create(ctx context.Context, pilot *models.Pilot) error
	GetByID(ctx context.Context, id string) (*models.Pilot, error)
	GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*models.Pilot, error)
	List(ctx context.Context, filter models.PilotFilter) ([]models.Pilot, int, error)
	Update(ctx context.Context, pilot *models.Pilot) error
	Delete(ctx context.Context, id string) error
}

// PilotService manages the crew registry backing availability math and
// request intake.
type PilotService struct {
	repo   pilotStore
	audit  auditLogger
	logger *zap.Logger
}

// NewPilotService constructs the service.
func NewPilotService(repo pilotStore, audit auditLogger, logger *zap.Logger) *PilotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PilotService{repo: repo, audit: audit, logger: logger}
}

// Create registers a new pilot. Employee numbers are unique.
func (s *PilotService) Create(ctx context.Context, req dto.CreatePilot, actor *models.JWTClaims) (*models.Pilot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return nil, appErrors.ErrForbidden
	}
	if !req.Rank.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rank must be CAPTAIN or FIRST_OFFICER")
	}
	employeeNumber := strings.TrimSpace(req.EmployeeNumber)
	existing, err := s.repo.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee number")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee number already registered")
	}

	pilot := &models.Pilot{
		EmployeeNumber:  employeeNumber,
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Rank:            req.Rank,
		SeniorityNumber: req.SeniorityNumber,
		Active:          true,
	}
	if raw := strings.TrimSpace(req.CommencementDate); raw != "" {
		commenced, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "commencement_date must be YYYY-MM-DD")
		}
		pilot.CommencementDate = &commenced
	}
	if err := s.repo.Create(ctx, pilot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pilot")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionUserCreate, pilot)
	return pilot, nil
}

// Get loads one pilot. Pilots may read their own record.
func (s *PilotService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Pilot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RolePilot && actor.Pilot() != id {
		return nil, appErrors.ErrForbidden
	}
	pilot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pilot")
	}
	return pilot, nil
}

// List returns pilots with pagination metadata. Reviewer roles only.
func (s *PilotService) List(ctx context.Context, query dto.PilotQuery, actor *models.JWTClaims) ([]models.Pilot, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return nil, nil, appErrors.ErrForbidden
	}
	filter := models.PilotFilter{
		Search:    query.Search,
		Active:    query.Active,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if query.Rank != "" {
		rank := models.PilotRank(strings.ToUpper(query.Rank))
		if !rank.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "rank must be CAPTAIN or FIRST_OFFICER")
		}
		filter.Rank = &rank
	}
	pilots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pilots")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return pilots, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update applies a partial update to a pilot record.
func (s *PilotService) Update(ctx context.Context, id string, req dto.UpdatePilot, actor *models.JWTClaims) (*models.Pilot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return nil, appErrors.ErrForbidden
	}
	pilot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pilot")
	}
	if req.FullName != nil {
		pilot.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		pilot.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Rank != nil {
		if !req.Rank.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "rank must be CAPTAIN or FIRST_OFFICER")
		}
		pilot.Rank = *req.Rank
	}
	if req.SeniorityNumber != nil {
		pilot.SeniorityNumber = *req.SeniorityNumber
	}
	if req.Active != nil {
		pilot.Active = *req.Active
	}
	if err := s.repo.Update(ctx, pilot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pilot")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionUserUpdate, pilot)
	return pilot, nil
}

// Deactivate soft-deletes a pilot; the record stays for history but drops out
// of availability counts.
func (s *PilotService) Deactivate(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return appErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate pilot")
	}
	return nil
}

func (s *PilotService) emitAudit(ctx context.Context, userID, action string, pilot *models.Pilot) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(pilot)
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "pilot",
		ResourceID: &pilot.ID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "pilot-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
