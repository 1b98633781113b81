package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/response"
)

type leaveBidService interface {
	Submit(ctx context.Context, req dto.SubmitLeaveBid, actor *models.JWTClaims) (*models.LeaveBid, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.LeaveBid, error)
	List(ctx context.Context, filter models.LeaveBidFilter, actor *models.JWTClaims) ([]models.LeaveBid, error)
	Review(ctx context.Context, req dto.ReviewLeaveBid, actor *models.JWTClaims) (*models.LeaveBid, error)
	ReviewOption(ctx context.Context, req dto.ReviewLeaveBidOption, actor *models.JWTClaims) (*models.LeaveBid, error)
}

// LeaveBidHandler exposes annual leave bid endpoints.
type LeaveBidHandler struct {
	service leaveBidService
}

// NewLeaveBidHandler constructs the handler.
func NewLeaveBidHandler(service leaveBidService) *LeaveBidHandler {
	return &LeaveBidHandler{service: service}
}

// Create godoc
// @Summary Submit an annual leave bid
// @Tags LeaveBids
// @Accept json
// @Produce json
// @Param payload body dto.SubmitLeaveBid true "Bid payload"
// @Success 201 {object} response.Envelope
// @Router /leave-bids [post]
func (h *LeaveBidHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "leave bid service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitLeaveBid
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave bid payload"))
		return
	}
	bid, err := h.service.Submit(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, bid, nil)
}

// List godoc
// @Summary List leave bids
// @Tags LeaveBids
// @Produce json
// @Param pilotId query string false "Pilot ID (reviewers only)"
// @Param bidYear query int false "Bid year"
// @Param status query string false "Bid status"
// @Success 200 {object} response.Envelope
// @Router /leave-bids [get]
func (h *LeaveBidHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "leave bid service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := models.LeaveBidFilter{
		PilotID: strings.TrimSpace(c.Query("pilotId")),
	}
	if raw := c.Query("bidYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "bidYear must be a number"))
			return
		}
		filter.BidYear = year
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.LeaveBidStatus(strings.ToUpper(raw))
	}
	filter.Limit, filter.Offset = paginationParams(c)
	bids, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bids, nil)
}

// Get godoc
// @Summary Get leave bid detail
// @Tags LeaveBids
// @Produce json
// @Param id path string true "Bid ID"
// @Success 200 {object} response.Envelope
// @Router /leave-bids/{id} [get]
func (h *LeaveBidHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "leave bid service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	bid, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bid, nil)
}

// Review godoc
// @Summary Review a leave bid
// @Tags LeaveBids
// @Accept json
// @Produce json
// @Param id path string true "Bid ID"
// @Param payload body dto.ReviewLeaveBid true "Decision"
// @Success 200 {object} response.Envelope
// @Router /leave-bids/{id}/review [post]
func (h *LeaveBidHandler) Review(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "leave bid service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReviewLeaveBid
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	req.BidID = c.Param("id")
	bid, err := h.service.Review(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bid, nil)
}

// ReviewOption godoc
// @Summary Review a single option within a leave bid
// @Tags LeaveBids
// @Accept json
// @Produce json
// @Param id path string true "Bid ID"
// @Param optionId path string true "Option ID"
// @Param payload body dto.ReviewLeaveBidOption true "Decision"
// @Success 200 {object} response.Envelope
// @Router /leave-bids/{id}/options/{optionId}/review [post]
func (h *LeaveBidHandler) ReviewOption(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "leave bid service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReviewLeaveBidOption
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	req.BidID = c.Param("id")
	req.OptionID = c.Param("optionId")
	bid, err := h.service.ReviewOption(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bid, nil)
}
