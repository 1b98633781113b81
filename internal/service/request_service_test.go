package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type stubRequestStore struct {
	created    *models.PilotRequest
	request    *models.PilotRequest
	lastFilter models.RequestFilter
	deletedID  string
}

func (s *stubRequestStore) Create(ctx context.Context, request *models.PilotRequest) error {
	request.ID = "req-new"
	s.created = request
	return nil
}

func (s *stubRequestStore) GetByID(ctx context.Context, id string) (*models.PilotRequest, error) {
	if s.request == nil {
		return nil, sql.ErrNoRows
	}
	copy := *s.request
	return &copy, nil
}

func (s *stubRequestStore) List(ctx context.Context, filter models.RequestFilter) ([]models.PilotRequest, error) {
	s.lastFilter = filter
	return nil, nil
}

func (s *stubRequestStore) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

type stubPilotResolver struct {
	pilot *models.Pilot
}

func (s *stubPilotResolver) GetByID(ctx context.Context, id string) (*models.Pilot, error) {
	if s.pilot == nil || s.pilot.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *s.pilot
	return &copy, nil
}

type stubConflictChecker struct {
	report *models.ConflictReport
}

func (s *stubConflictChecker) CheckConflicts(ctx context.Context, candidate *models.PilotRequest) (*models.ConflictReport, error) {
	if s.report == nil {
		return &models.ConflictReport{}, nil
	}
	return s.report, nil
}

func activePilot() *models.Pilot {
	return &models.Pilot{
		ID:              "pilot-1",
		EmployeeNumber:  "PX2101",
		FullName:        "Maurice Rondeau",
		Rank:            models.RankCaptain,
		SeniorityNumber: 4,
		Active:          true,
	}
}

func newRequestService(store *stubRequestStore, pilots *stubPilotResolver, conflicts *stubConflictChecker) *RequestService {
	svc := NewRequestService(store, pilots, conflicts, &stubAudit{}, RequestServiceConfig{LateNoticeDays: 21, DeadlineDays: 10}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestRequestSubmitDerivesFields(t *testing.T) {
	store := &stubRequestStore{}
	conflicts := &stubConflictChecker{report: &models.ConflictReport{
		HasConflict: true,
		Conflicts:   []models.Conflict{{Type: models.ConflictMultiplePending, Severity: models.SeverityLow}},
	}}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, conflicts)

	created, err := svc.Submit(context.Background(), dto.SubmitRequest{
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-07-01",
		EndDate:   "2025-07-14",
		Reason:    "family visit",
	}, pilotActor("pilot-1"))
	require.NoError(t, err)

	assert.Equal(t, "pilot-1", created.PilotID)
	assert.Equal(t, "PX2101", created.EmployeeNumber)
	assert.Equal(t, models.CategoryLeave, created.Category)
	assert.Equal(t, models.ChannelPilotPortal, created.Channel)
	assert.Equal(t, models.StatusSubmitted, created.Status)
	assert.Equal(t, 14, created.DaysCount)
	assert.Equal(t, models.RosterPeriodCodes(created.StartDate, created.EffectiveEnd()), []string(created.RosterPeriods))
	// 61 days notice: neither late nor past deadline
	assert.False(t, created.IsLateRequest)
	assert.False(t, created.IsPastDeadline)
	assert.Equal(t, 996, created.PriorityScore)
	assert.Equal(t, []string{"MULTIPLE_PENDING"}, []string(created.ConflictFlags))
}

func TestRequestSubmitLatePenalties(t *testing.T) {
	store := &stubRequestStore{}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	created, err := svc.Submit(context.Background(), dto.SubmitRequest{
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-05-05",
	}, pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.True(t, created.IsLateRequest)
	assert.True(t, created.IsPastDeadline)
	// 1000 - 4 seniority - 100 late - 200 past deadline
	assert.Equal(t, 696, created.PriorityScore)
	assert.Nil(t, created.EndDate)
	assert.Equal(t, 1, created.DaysCount)
}

func TestRequestSubmitPilotCannotImpersonate(t *testing.T) {
	store := &stubRequestStore{}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	created, err := svc.Submit(context.Background(), dto.SubmitRequest{
		PilotID:   "pilot-99",
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-07-01",
		Channel:   models.ChannelEmail,
	}, pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.Equal(t, "pilot-1", created.PilotID)
	assert.Equal(t, models.ChannelPilotPortal, created.Channel)
}

func TestRequestSubmitAdminOnBehalf(t *testing.T) {
	store := &stubRequestStore{}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	created, err := svc.Submit(context.Background(), dto.SubmitRequest{
		PilotID:   "pilot-1",
		Type:      models.RequestTypeSDO,
		StartDate: "2025-07-01",
		Channel:   models.ChannelPhone,
	}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, models.ChannelPhone, created.Channel)
	assert.Equal(t, models.CategoryFlight, created.Category)
}

func TestRequestSubmitValidation(t *testing.T) {
	svc := newRequestService(&stubRequestStore{}, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	_, err := svc.Submit(context.Background(), dto.SubmitRequest{Type: "HOLIDAY", StartDate: "2025-07-01", PilotID: "pilot-1"}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "VALIDATION_ERROR"))

	_, err = svc.Submit(context.Background(), dto.SubmitRequest{Type: models.RequestTypeAnnual, StartDate: "2025-07-14", EndDate: "2025-07-01", PilotID: "pilot-1"}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "VALIDATION_ERROR"))

	_, err = svc.Submit(context.Background(), dto.SubmitRequest{Type: models.RequestTypeAnnual, StartDate: "2025-07-01", PilotID: "pilot-404"}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "NOT_FOUND"))
}

func TestRequestSubmitInactivePilot(t *testing.T) {
	pilot := activePilot()
	pilot.Active = false
	svc := newRequestService(&stubRequestStore{}, &stubPilotResolver{pilot: pilot}, &stubConflictChecker{})

	_, err := svc.Submit(context.Background(), dto.SubmitRequest{Type: models.RequestTypeAnnual, StartDate: "2025-07-01", PilotID: "pilot-1"}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "PRECONDITION_FAILED"))
}

func TestRequestListScopesPilots(t *testing.T) {
	store := &stubRequestStore{}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	_, err := svc.List(context.Background(), dto.RequestQuery{PilotID: "pilot-99"}, pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.Equal(t, "pilot-1", store.lastFilter.PilotID)

	_, err = svc.List(context.Background(), dto.RequestQuery{PilotID: "pilot-99"}, adminActor())
	require.NoError(t, err)
	assert.Equal(t, "pilot-99", store.lastFilter.PilotID)
}

func TestRequestGetScoping(t *testing.T) {
	request := leaveRequest(models.StatusSubmitted)
	store := &stubRequestStore{request: request}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	_, err := svc.Get(context.Background(), "req-1", pilotActor("pilot-2"))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))

	got, err := svc.Get(context.Background(), "req-1", pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.ID)
}

func TestRequestDeleteReviewerOnly(t *testing.T) {
	store := &stubRequestStore{request: leaveRequest(models.StatusSubmitted)}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	err := svc.Delete(context.Background(), "req-1", pilotActor("pilot-1"))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))

	err = svc.Delete(context.Background(), "req-1", adminActor())
	require.NoError(t, err)
	assert.Equal(t, "req-1", store.deletedID)
}

func TestRequestSubmitNoticeCountsCalendarDays(t *testing.T) {
	// Clock is 08:00 on 2025-05-01; a start exactly LateNoticeDays out must
	// not be flagged late just because of the time of day.
	svc := newRequestService(&stubRequestStore{}, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	created, err := svc.Submit(context.Background(), dto.SubmitRequest{
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-05-22",
	}, pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.False(t, created.IsLateRequest)

	created, err = svc.Submit(context.Background(), dto.SubmitRequest{
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-05-21",
	}, pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.True(t, created.IsLateRequest)
}

func TestRequestSubmitDraft(t *testing.T) {
	store := &stubRequestStore{}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	created, err := svc.Submit(context.Background(), dto.SubmitRequest{
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-07-01",
		Draft:     true,
	}, pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, created.Status)

	_, err = svc.Submit(context.Background(), dto.SubmitRequest{
		PilotID:   "pilot-1",
		Type:      models.RequestTypeAnnual,
		StartDate: "2025-07-01",
		Draft:     true,
	}, adminActor())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "VALIDATION_ERROR"))
}

func TestRequestDeleteOwnDraft(t *testing.T) {
	store := &stubRequestStore{request: leaveRequest(models.StatusDraft)}
	svc := newRequestService(store, &stubPilotResolver{pilot: activePilot()}, &stubConflictChecker{})

	err := svc.Delete(context.Background(), "req-1", pilotActor("pilot-2"))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, "FORBIDDEN"))

	err = svc.Delete(context.Background(), "req-1", pilotActor("pilot-1"))
	require.NoError(t, err)
	assert.Equal(t, "req-1", store.deletedID)
}
