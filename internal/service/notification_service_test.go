package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/jobs"
)

type stubNotificationStore struct {
	created []*models.Notification
	markErr error
}

func (s *stubNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = "notif-1"
	s.created = append(s.created, notification)
	return nil
}

func (s *stubNotificationStore) ListByPilot(ctx context.Context, pilotID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	return nil, nil
}

func (s *stubNotificationStore) MarkRead(ctx context.Context, id, pilotID string) error {
	return s.markErr
}

type stubQueue struct {
	jobs []jobs.Job
	err  error
}

func (s *stubQueue) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func TestNotifyTransitionPersistsAndEnqueues(t *testing.T) {
	store := &stubNotificationStore{}
	queue := &stubQueue{}
	svc := NewNotificationService(store, queue, zap.NewNop())

	request := leaveRequest(models.StatusApproved)
	svc.NotifyTransition(context.Background(), request)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, "pilot-1", created.PilotID)
	assert.Equal(t, models.NotificationRequestApproved, created.Type)
	require.NotNil(t, created.RequestID)
	assert.Equal(t, "req-1", *created.RequestID)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "notif-1", queue.jobs[0].ID)
}

func TestNotifyTransitionTypeMapping(t *testing.T) {
	cases := map[models.RequestStatus]models.NotificationType{
		models.StatusApproved:  models.NotificationRequestApproved,
		models.StatusDenied:    models.NotificationRequestDenied,
		models.StatusInReview:  models.NotificationRequestInReview,
		models.StatusWithdrawn: models.NotificationRequestWithdrawn,
	}
	for status, expected := range cases {
		store := &stubNotificationStore{}
		svc := NewNotificationService(store, &stubQueue{}, zap.NewNop())
		svc.NotifyTransition(context.Background(), leaveRequest(status))
		require.Len(t, store.created, 1, "status %s", status)
		assert.Equal(t, expected, store.created[0].Type)
	}
}

func TestNotifyTransitionSkipsNonTerminalStates(t *testing.T) {
	store := &stubNotificationStore{}
	svc := NewNotificationService(store, &stubQueue{}, zap.NewNop())
	svc.NotifyTransition(context.Background(), leaveRequest(models.StatusSubmitted))
	assert.Empty(t, store.created)
}

func TestNotificationHandleDispatch(t *testing.T) {
	svc := NewNotificationService(&stubNotificationStore{}, &stubQueue{}, zap.NewNop())

	notification := &models.Notification{PilotID: "pilot-1", Type: models.NotificationRequestApproved, CreatedAt: time.Now()}
	err := svc.HandleDispatch(context.Background(), jobs.Job{ID: "n-1", Payload: notification})
	require.NoError(t, err)

	err = svc.HandleDispatch(context.Background(), jobs.Job{ID: "n-2", Payload: "bogus"})
	require.Error(t, err)
}

func TestNotificationMarkReadScope(t *testing.T) {
	store := &stubNotificationStore{markErr: sql.ErrNoRows}
	svc := NewNotificationService(store, &stubQueue{}, zap.NewNop())

	err := svc.MarkRead(context.Background(), "notif-1", pilotActor("pilot-1"))
	require.Error(t, err)

	err = svc.MarkRead(context.Background(), "notif-1", adminActor())
	require.Error(t, err)
}
