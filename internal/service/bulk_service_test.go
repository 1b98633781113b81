package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type stubTransitioner struct {
	failures map[string]error
	calls    []string
	statuses []models.RequestStatus
}

func (s *stubTransitioner) Transition(ctx context.Context, id string, req dto.ReviewRequest, actor *models.JWTClaims) (*models.PilotRequest, error) {
	s.calls = append(s.calls, id)
	s.statuses = append(s.statuses, req.Status)
	if err, ok := s.failures[id]; ok {
		return nil, err
	}
	return &models.PilotRequest{ID: id, Status: req.Status}, nil
}

type stubRemover struct {
	failures map[string]error
	deleted  []string
}

func (s *stubRemover) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err, ok := s.failures[id]; ok {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func TestBulkApprovePartialFailure(t *testing.T) {
	workflow := &stubTransitioner{failures: map[string]error{
		"req-2": appErrors.Clone(appErrors.ErrCrewBelowMinimum, "short 1 captain"),
	}}
	svc := NewBulkService(workflow, &stubRemover{}, zap.NewNop())

	result, err := svc.Apply(context.Background(), dto.BulkAction{
		RequestIDs: []string{"req-1", "req-2", "req-3"},
		Action:     "approve",
	}, adminActor())
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
	assert.Equal(t, 3, result.SuccessCount+result.FailCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "req-2", result.Failures[0].RequestID)
	assert.Equal(t, "CREW_BELOW_MINIMUM", result.Failures[0].Code)

	// sequential, in input order
	assert.Equal(t, []string{"req-1", "req-2", "req-3"}, workflow.calls)
	for _, status := range workflow.statuses {
		assert.Equal(t, models.StatusApproved, status)
	}
}

func TestBulkDenyCarriesComments(t *testing.T) {
	workflow := &stubTransitioner{}
	svc := NewBulkService(workflow, &stubRemover{}, zap.NewNop())

	result, err := svc.Apply(context.Background(), dto.BulkAction{
		RequestIDs: []string{"req-1", "req-2"},
		Action:     "deny",
		Comments:   "roster closed",
	}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, []models.RequestStatus{models.StatusDenied, models.StatusDenied}, workflow.statuses)
}

func TestBulkDelete(t *testing.T) {
	remover := &stubRemover{failures: map[string]error{"req-9": appErrors.ErrNotFound}}
	svc := NewBulkService(&stubTransitioner{}, remover, zap.NewNop())

	result, err := svc.Apply(context.Background(), dto.BulkAction{
		RequestIDs: []string{"req-1", "req-9"},
		Action:     "delete",
	}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
	assert.Equal(t, []string{"req-1"}, remover.deleted)
	assert.Equal(t, "NOT_FOUND", result.Failures[0].Code)
}

func TestBulkRejectsUnknownActionAndRole(t *testing.T) {
	svc := NewBulkService(&stubTransitioner{}, &stubRemover{}, zap.NewNop())

	_, err := svc.Apply(context.Background(), dto.BulkAction{RequestIDs: []string{"req-1"}, Action: "escalate"}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "VALIDATION_ERROR"))

	_, err = svc.Apply(context.Background(), dto.BulkAction{RequestIDs: []string{"req-1"}, Action: "approve"}, pilotActor("pilot-1"))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))
}
