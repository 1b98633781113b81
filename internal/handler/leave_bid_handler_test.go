package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

type leaveBidServiceMock struct {
	bid          *models.LeaveBid
	err          error
	reviewReq    dto.ReviewLeaveBid
	optionReq    dto.ReviewLeaveBidOption
	listFilter   models.LeaveBidFilter
	listResponse []models.LeaveBid
}

func (m *leaveBidServiceMock) Submit(ctx context.Context, req dto.SubmitLeaveBid, actor *models.JWTClaims) (*models.LeaveBid, error) {
	return m.bid, m.err
}

func (m *leaveBidServiceMock) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.LeaveBid, error) {
	return m.bid, m.err
}

func (m *leaveBidServiceMock) List(ctx context.Context, filter models.LeaveBidFilter, actor *models.JWTClaims) ([]models.LeaveBid, error) {
	m.listFilter = filter
	return m.listResponse, m.err
}

func (m *leaveBidServiceMock) Review(ctx context.Context, req dto.ReviewLeaveBid, actor *models.JWTClaims) (*models.LeaveBid, error) {
	m.reviewReq = req
	return m.bid, m.err
}

func (m *leaveBidServiceMock) ReviewOption(ctx context.Context, req dto.ReviewLeaveBidOption, actor *models.JWTClaims) (*models.LeaveBid, error) {
	m.optionReq = req
	return m.bid, m.err
}

func TestLeaveBidHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveBidServiceMock{bid: &models.LeaveBid{ID: "bid-1", Status: models.BidStatusPending}}
	handler := NewLeaveBidHandler(mockSvc)

	payload, _ := json.Marshal(dto.SubmitLeaveBid{
		BidYear: 2026,
		Options: []dto.SubmitLeaveBidSlot{{Priority: 1, StartDate: "2026-01-10", EndDate: "2026-01-24"}},
	})
	c, w := newGinContext(http.MethodPost, "/leave-bids", payload)
	setClaims(c, &models.JWTClaims{UserID: "u-1", Role: models.RolePilot, PilotID: strPtr("pilot-1")})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestLeaveBidHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveBidServiceMock{listResponse: []models.LeaveBid{}}
	handler := NewLeaveBidHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/leave-bids?bidYear=2026&status=pending", nil)
	setClaims(c, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2026, mockSvc.listFilter.BidYear)
	require.Equal(t, models.BidStatusPending, mockSvc.listFilter.Status)
}

func TestLeaveBidHandlerReviewUsesPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveBidServiceMock{bid: &models.LeaveBid{ID: "bid-1", Status: models.BidStatusApproved}}
	handler := NewLeaveBidHandler(mockSvc)

	payload, _ := json.Marshal(dto.ReviewLeaveBid{Action: "approve"})
	c, w := newGinContext(http.MethodPost, "/leave-bids/bid-1/review", payload)
	c.Params = gin.Params{{Key: "id", Value: "bid-1"}}
	setClaims(c, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Review(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bid-1", mockSvc.reviewReq.BidID)
	require.Equal(t, "approve", mockSvc.reviewReq.Action)
}

func TestLeaveBidHandlerReviewOptionUsesPathIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &leaveBidServiceMock{bid: &models.LeaveBid{ID: "bid-1"}}
	handler := NewLeaveBidHandler(mockSvc)

	payload, _ := json.Marshal(dto.ReviewLeaveBidOption{Action: "reject"})
	c, w := newGinContext(http.MethodPost, "/leave-bids/bid-1/options/opt-2/review", payload)
	c.Params = gin.Params{{Key: "id", Value: "bid-1"}, {Key: "optionId", Value: "opt-2"}}
	setClaims(c, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.ReviewOption(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bid-1", mockSvc.optionReq.BidID)
	require.Equal(t, "opt-2", mockSvc.optionReq.OptionID)
}

func TestLeaveBidHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLeaveBidHandler(&leaveBidServiceMock{})

	c, w := newGinContext(http.MethodGet, "/leave-bids", nil)
	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
