package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByPilot(ctx context.Context, pilotID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, pilotID string) error
}

// NotificationSender delivers a persisted notification to the pilot (email,
// push). The default sender only logs; delivery is an external concern.
type NotificationSender interface {
	Send(ctx context.Context, notification *models.Notification) error
}

// NotificationService persists pilot notifications and hands delivery to the
// background queue. Notification failures never fail the triggering
// operation.
type NotificationService struct {
	repo   notificationStore
	queue  jobDispatcher
	sender NotificationSender
	logger *zap.Logger
}

// NotificationServiceOption configures the service.
type NotificationServiceOption func(*NotificationService)

// WithNotificationSender overrides the delivery mechanism.
func WithNotificationSender(sender NotificationSender) NotificationServiceOption {
	return func(s *NotificationService) {
		if sender != nil {
			s.sender = sender
		}
	}
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationStore, queue jobDispatcher, logger *zap.Logger, opts ...NotificationServiceOption) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{
		repo:   repo,
		queue:  queue,
		logger: logger,
	}
	svc.sender = &logSender{logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// NotifyTransition persists and dispatches a notification for a committed
// workflow transition.
func (s *NotificationService) NotifyTransition(ctx context.Context, request *models.PilotRequest) {
	if request == nil {
		return
	}
	kind, title := transitionNotification(request.Status)
	if kind == "" {
		return
	}
	requestID := request.ID
	notification := &models.Notification{
		PilotID:   request.PilotID,
		Type:      kind,
		Title:     title,
		Message:   fmt.Sprintf("Your %s request for %s is now %s.", request.Type, formatRange(request.StartDate, request.EffectiveEnd()), request.Status),
		RequestID: &requestID,
	}
	s.dispatch(ctx, notification)
}

// NotifyBidReviewed persists and dispatches a notification for a reviewed
// leave bid.
func (s *NotificationService) NotifyBidReviewed(ctx context.Context, bid *models.LeaveBid) {
	if bid == nil {
		return
	}
	notification := &models.Notification{
		PilotID: bid.PilotID,
		Type:    models.NotificationBidReviewed,
		Title:   "Leave bid reviewed",
		Message: fmt.Sprintf("Your %d leave bid is now %s.", bid.BidYear, bid.Status),
	}
	s.dispatch(ctx, notification)
}

// List returns the pilot's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor *models.JWTClaims, unreadOnly bool, limit int) ([]models.Notification, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	pilotID := actor.Pilot()
	if pilotID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a pilot")
	}
	notifications, err := s.repo.ListByPilot(ctx, pilotID, unreadOnly, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// MarkRead flags one of the actor's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	pilotID := actor.Pilot()
	if pilotID == "" {
		return appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a pilot")
	}
	if err := s.repo.MarkRead(ctx, id, pilotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// HandleDispatch processes one queued delivery job.
func (s *NotificationService) HandleDispatch(ctx context.Context, job jobs.Job) error {
	notification, ok := job.Payload.(*models.Notification)
	if !ok || notification == nil {
		return fmt.Errorf("unexpected notification payload: %T", job.Payload)
	}
	return s.sender.Send(ctx, notification)
}

func (s *NotificationService) dispatch(ctx context.Context, notification *models.Notification) {
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to persist notification",
			zap.String("pilot_id", notification.PilotID),
			zap.Error(err),
		)
		return
	}
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: notification.ID, Type: string(notification.Type), Payload: notification}); err != nil {
		s.logger.Warn("failed to enqueue notification delivery",
			zap.String("notification_id", notification.ID),
			zap.Error(err),
		)
	}
}

func transitionNotification(status models.RequestStatus) (models.NotificationType, string) {
	switch status {
	case models.StatusApproved:
		return models.NotificationRequestApproved, "Request approved"
	case models.StatusDenied:
		return models.NotificationRequestDenied, "Request denied"
	case models.StatusInReview:
		return models.NotificationRequestInReview, "Request under review"
	case models.StatusWithdrawn:
		return models.NotificationRequestWithdrawn, "Request withdrawn"
	default:
		return "", ""
	}
}

type logSender struct {
	logger *zap.Logger
}

func (l *logSender) Send(_ context.Context, notification *models.Notification) error {
	l.logger.Info("notification dispatched",
		zap.String("pilot_id", notification.PilotID),
		zap.String("type", string(notification.Type)),
		zap.String("title", notification.Title),
	)
	return nil
}
