package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type stubPilotStore struct {
	pilot      *models.Pilot
	byNumber   *models.Pilot
	created    *models.Pilot
	updated    *models.Pilot
	deletedID  string
	listFilter models.PilotFilter
}

func (s *stubPilotStore) Create(ctx context.Context, pilot *models.Pilot) error {
	pilot.ID = "pilot-new"
	s.created = pilot
	return nil
}

func (s *stubPilotStore) GetByID(ctx context.Context, id string) (*models.Pilot, error) {
	if s.pilot == nil {
		return nil, sql.ErrNoRows
	}
	copy := *s.pilot
	return &copy, nil
}

func (s *stubPilotStore) GetByEmployeeNumber(ctx context.Context, employeeNumber string) (*models.Pilot, error) {
	if s.byNumber == nil {
		return nil, sql.ErrNoRows
	}
	return s.byNumber, nil
}

func (s *stubPilotStore) List(ctx context.Context, filter models.PilotFilter) ([]models.Pilot, int, error) {
	s.listFilter = filter
	if s.pilot == nil {
		return nil, 0, nil
	}
	return []models.Pilot{*s.pilot}, 1, nil
}

func (s *stubPilotStore) Update(ctx context.Context, pilot *models.Pilot) error {
	s.updated = pilot
	return nil
}

func (s *stubPilotStore) Delete(ctx context.Context, id string) error {
	if s.pilot == nil {
		return sql.ErrNoRows
	}
	s.deletedID = id
	return nil
}

func TestPilotCreateNormalizesInput(t *testing.T) {
	store := &stubPilotStore{}
	audit := &stubAudit{}
	svc := NewPilotService(store, audit, zap.NewNop())

	pilot, err := svc.Create(context.Background(), dto.CreatePilot{
		EmployeeNumber:   " E1002 ",
		FullName:         " Sam Okafor ",
		Email:            " Sam.Okafor@Example.com ",
		Rank:             models.RankFirstOfficer,
		SeniorityNumber:  44,
		CommencementDate: "2021-03-15",
	}, adminActor())

	require.NoError(t, err)
	assert.Equal(t, "E1002", pilot.EmployeeNumber)
	assert.Equal(t, "Sam Okafor", pilot.FullName)
	assert.Equal(t, "sam.okafor@example.com", pilot.Email)
	assert.True(t, pilot.Active)
	require.NotNil(t, pilot.CommencementDate)
	assert.Equal(t, 2021, pilot.CommencementDate.Year())
	assert.NotEmpty(t, audit.logs)
}

func TestPilotCreateRejectsDuplicateEmployeeNumber(t *testing.T) {
	store := &stubPilotStore{byNumber: activePilot()}
	svc := NewPilotService(store, &stubAudit{}, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreatePilot{
		EmployeeNumber:  "E1001",
		FullName:        "Dana Reyes",
		Email:           "dana.reyes@example.com",
		Rank:            models.RankCaptain,
		SeniorityNumber: 12,
	}, adminActor())

	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "CONFLICT"))
}

func TestPilotCreateRequiresReviewerRole(t *testing.T) {
	svc := NewPilotService(&stubPilotStore{}, &stubAudit{}, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreatePilot{
		EmployeeNumber:  "E1003",
		FullName:        "Lee Tran",
		Email:           "lee.tran@example.com",
		Rank:            models.RankCaptain,
		SeniorityNumber: 3,
	}, pilotActor("pilot-9"))

	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))
}

func TestPilotCreateRejectsBadCommencementDate(t *testing.T) {
	svc := NewPilotService(&stubPilotStore{}, &stubAudit{}, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreatePilot{
		EmployeeNumber:   "E1004",
		FullName:         "Pat Silva",
		Email:            "pat.silva@example.com",
		Rank:             models.RankCaptain,
		SeniorityNumber:  7,
		CommencementDate: "15/03/2021",
	}, adminActor())

	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "VALIDATION_ERROR"))
}

func TestPilotGetAllowsOwnRecordOnly(t *testing.T) {
	store := &stubPilotStore{pilot: activePilot()}
	svc := NewPilotService(store, &stubAudit{}, zap.NewNop())

	pilot, err := svc.Get(context.Background(), "pilot-1", pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.Equal(t, "pilot-1", pilot.ID)

	_, err = svc.Get(context.Background(), "pilot-1", pilotActor("pilot-2"))
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))
}

func TestPilotGetNotFound(t *testing.T) {
	svc := NewPilotService(&stubPilotStore{}, &stubAudit{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing", adminActor())
	assert.True(t, appErrors.IsCode(err, "NOT_FOUND"))
}

func TestPilotListValidatesRankFilter(t *testing.T) {
	store := &stubPilotStore{pilot: activePilot()}
	svc := NewPilotService(store, &stubAudit{}, zap.NewNop())

	_, _, err := svc.List(context.Background(), dto.PilotQuery{Rank: "ENGINEER"}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "VALIDATION_ERROR"))

	pilots, pagination, err := svc.List(context.Background(), dto.PilotQuery{Rank: "captain"}, adminActor())
	require.NoError(t, err)
	require.Len(t, pilots, 1)
	require.NotNil(t, store.listFilter.Rank)
	assert.Equal(t, models.RankCaptain, *store.listFilter.Rank)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestPilotUpdateAppliesPartialFields(t *testing.T) {
	store := &stubPilotStore{pilot: activePilot()}
	svc := NewPilotService(store, &stubAudit{}, zap.NewNop())

	newRank := models.RankFirstOfficer
	inactive := false
	pilot, err := svc.Update(context.Background(), "pilot-1", dto.UpdatePilot{
		Rank:   &newRank,
		Active: &inactive,
	}, adminActor())

	require.NoError(t, err)
	assert.Equal(t, models.RankFirstOfficer, pilot.Rank)
	assert.False(t, pilot.Active)
	assert.Equal(t, "Maurice Rondeau", pilot.FullName)
	require.NotNil(t, store.updated)
}

func TestPilotDeactivate(t *testing.T) {
	store := &stubPilotStore{pilot: activePilot()}
	svc := NewPilotService(store, &stubAudit{}, zap.NewNop())

	require.NoError(t, svc.Deactivate(context.Background(), "pilot-1", adminActor()))
	assert.Equal(t, "pilot-1", store.deletedID)

	err := svc.Deactivate(context.Background(), "pilot-1", pilotActor("pilot-1"))
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))
}
