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

type leaveBidStore interface {
	Create(ctx context.Context, bid *models.LeaveBid) error
	GetByID(ctx context.Context, id string) (*models.LeaveBid, error)
	List(ctx context.Context, filter models.LeaveBidFilter) ([]models.LeaveBid, error)
	UpdateStatus(ctx context.Context, id string, status models.LeaveBidStatus, reviewerID string, reviewedAt time.Time) error
	UpdateOptionStatus(ctx context.Context, bidID, optionID string, status models.LeaveBidOptionStatus) error
	MarkProcessing(ctx context.Context, id string) error
}

type bidNotifier interface {
	NotifyBidReviewed(ctx context.Context, bid *models.LeaveBid)
}

// LeaveBidService manages annual leave bids: ranked date-range preferences
// reviewed once per bid year. Options carry decisions independently of the
// aggregate bid and are always addressed by their stable id.
type LeaveBidService struct {
	repo     leaveBidStore
	audit    auditLogger
	notifier bidNotifier
	logger   *zap.Logger
}

// LeaveBidServiceOption configures the service.
type LeaveBidServiceOption func(*LeaveBidService)

// WithBidNotifier attaches the notification fan-out.
func WithBidNotifier(n bidNotifier) LeaveBidServiceOption {
	return func(s *LeaveBidService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// NewLeaveBidService constructs the service.
func NewLeaveBidService(repo leaveBidStore, audit auditLogger, logger *zap.Logger, opts ...LeaveBidServiceOption) *LeaveBidService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LeaveBidService{repo: repo, audit: audit, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Submit stores a new bid with its ranked options. Priorities must be unique
// within the bid; ranges must be well formed.
func (s *LeaveBidService) Submit(ctx context.Context, req dto.SubmitLeaveBid, actor *models.JWTClaims) (*models.LeaveBid, error) {
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
	if req.BidYear < 2024 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bid_year is invalid")
	}
	if len(req.Options) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one option is required")
	}

	seen := make(map[int]bool, len(req.Options))
	options := make([]models.LeaveBidOption, 0, len(req.Options))
	for _, slot := range req.Options {
		if slot.Priority < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "option priority must be 1 or greater")
		}
		if seen[slot.Priority] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "option priorities must be unique within a bid")
		}
		seen[slot.Priority] = true
		start, end, err := parseDateRange(slot.StartDate, slot.EndDate)
		if err != nil {
			return nil, err
		}
		options = append(options, models.LeaveBidOption{
			Priority:  slot.Priority,
			StartDate: start,
			EndDate:   end,
			Status:    models.OptionStatusPending,
		})
	}

	bid := &models.LeaveBid{
		PilotID: pilotID,
		BidYear: req.BidYear,
		Status:  models.BidStatusPending,
		Options: options,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		bid.Notes = &notes
	}
	if err := s.repo.Create(ctx, bid); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave bid")
	}
	return bid, nil
}

// Get loads one bid with its options, enforcing pilot scoping.
func (s *LeaveBidService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.LeaveBid, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	bid, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave bid")
	}
	if actor.Role == models.RolePilot && bid.PilotID != actor.Pilot() {
		return nil, appErrors.ErrForbidden
	}
	return bid, nil
}

// List returns bids visible to the actor.
func (s *LeaveBidService) List(ctx context.Context, filter models.LeaveBidFilter, actor *models.JWTClaims) ([]models.LeaveBid, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RolePilot {
		filter.PilotID = actor.Pilot()
	}
	bids, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave bids")
	}
	return bids, nil
}

// Review applies an aggregate decision to the whole bid. Only PENDING or
// PROCESSING bids accept a decision; the update is guarded so a second
// reviewer sees a conflict.
func (s *LeaveBidService) Review(ctx context.Context, req dto.ReviewLeaveBid, actor *models.JWTClaims) (*models.LeaveBid, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return nil, appErrors.ErrForbidden
	}
	status, err := bidStatusFromAction(req.Action)
	if err != nil {
		return nil, err
	}
	bid, err := s.repo.GetByID(ctx, req.BidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave bid")
	}
	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, bid.ID, status, actor.UserID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "bid was reviewed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave bid")
	}
	bid.Status = status
	reviewerID := actor.UserID
	bid.ReviewedBy = &reviewerID
	bid.ReviewedAt = &now

	s.emitAudit(ctx, actor.UserID, models.AuditActionBidReview, bid.ID, map[string]string{
		"status": string(status),
	})
	if s.notifier != nil {
		s.notifier.NotifyBidReviewed(ctx, bid)
	}
	return bid, nil
}

// ReviewOption applies a decision to a single option, addressed by its stable
// id. The first option decision moves a PENDING bid to PROCESSING; the
// aggregate approve/reject decision stays with Review.
func (s *LeaveBidService) ReviewOption(ctx context.Context, req dto.ReviewLeaveBidOption, actor *models.JWTClaims) (*models.LeaveBid, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return nil, appErrors.ErrForbidden
	}
	status, err := optionStatusFromAction(req.Action)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOptionStatus(ctx, req.BidID, req.OptionID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bid option not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bid option")
	}
	if err := s.repo.MarkProcessing(ctx, req.BidID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark bid processing")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionBidOptionReview, req.BidID, map[string]string{
		"option_id": req.OptionID,
		"status":    string(status),
	})
	bid, err := s.repo.GetByID(ctx, req.BidID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload leave bid")
	}
	return bid, nil
}

func (s *LeaveBidService) emitAudit(ctx context.Context, userID, action, bidID string, change map[string]string) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(change)
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "leave_bid",
		ResourceID: &bidID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "leave-bid-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func bidStatusFromAction(action string) (models.LeaveBidStatus, error) {
	switch action {
	case "approve":
		return models.BidStatusApproved, nil
	case "reject":
		return models.BidStatusRejected, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "action must be approve or reject")
	}
}

func optionStatusFromAction(action string) (models.LeaveBidOptionStatus, error) {
	switch action {
	case "approve":
		return models.OptionStatusApproved, nil
	case "reject":
		return models.OptionStatusRejected, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "action must be approve or reject")
	}
}
