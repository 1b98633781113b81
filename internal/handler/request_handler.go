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

type requestService interface {
	Submit(ctx context.Context, req dto.SubmitRequest, actor *models.JWTClaims) (*models.PilotRequest, error)
	List(ctx context.Context, query dto.RequestQuery, actor *models.JWTClaims) ([]models.PilotRequest, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.PilotRequest, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	CheckConflicts(ctx context.Context, req dto.SubmitRequest, actor *models.JWTClaims) (*models.ConflictReport, error)
}

type workflowTransitioner interface {
	Transition(ctx context.Context, id string, req dto.ReviewRequest, actor *models.JWTClaims) (*models.PilotRequest, error)
}

type bulkApplier interface {
	Apply(ctx context.Context, action dto.BulkAction, actor *models.JWTClaims) (*dto.BulkResult, error)
}

// RequestHandler exposes REST endpoints for the request lifecycle.
type RequestHandler struct {
	requests requestService
	workflow workflowTransitioner
	bulk     bulkApplier
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(requests requestService, workflow workflowTransitioner, bulk bulkApplier) *RequestHandler {
	return &RequestHandler{requests: requests, workflow: workflow, bulk: bulk}
}

// Create godoc
// @Summary Submit a leave or flight request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	if h.requests == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "request service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request payload"))
		return
	}
	request, err := h.requests.Submit(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, request, nil)
}

// List godoc
// @Summary List requests
// @Tags Requests
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param category query string false "Request category"
// @Param type query string false "Request type"
// @Param pilotId query string false "Pilot ID (reviewers only)"
// @Param rosterPeriod query string false "Roster period code, e.g. RP11/2025"
// @Param lateOnly query bool false "Only late submissions"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	if h.requests == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "request service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	query := dto.RequestQuery{
		PilotID:      strings.TrimSpace(c.Query("pilotId")),
		RosterPeriod: strings.TrimSpace(c.Query("rosterPeriod")),
	}
	if raw := c.Query("category"); raw != "" {
		query.Category = models.RequestCategory(strings.ToUpper(raw))
	}
	if raw := c.Query("type"); raw != "" {
		query.Type = models.RequestType(strings.ToUpper(raw))
	}
	if raw := c.Query("status"); raw != "" {
		parts := strings.Split(raw, ",")
		statuses := make([]models.RequestStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			statuses = append(statuses, models.RequestStatus(part))
		}
		query.Statuses = statuses
	}
	if raw := c.Query("lateOnly"); raw != "" {
		late, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "lateOnly must be a boolean"))
			return
		}
		query.LateOnly = late
	}
	query.Limit, query.Offset = paginationParams(c)
	requests, err := h.requests.List(c.Request.Context(), query, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Get godoc
// @Summary Get request detail
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	if h.requests == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "request service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.requests.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateStatus godoc
// @Summary Transition a request through the review workflow
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.ReviewRequest true "Target status and decision details"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/status [patch]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	if h.workflow == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workflow service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	request, err := h.workflow.Transition(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Bulk godoc
// @Summary Apply one action to many requests
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.BulkAction true "Bulk action"
// @Success 200 {object} response.Envelope
// @Router /requests/bulk [post]
func (h *RequestHandler) Bulk(c *gin.Context) {
	if h.bulk == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "bulk service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var action dto.BulkAction
	if err := c.ShouldBindJSON(&action); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bulk payload"))
		return
	}
	result, err := h.bulk.Apply(c.Request.Context(), action, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Withdraw godoc
// @Summary Withdraw an own pending request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/withdraw [post]
func (h *RequestHandler) Withdraw(c *gin.Context) {
	if h.workflow == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "workflow service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	req := dto.ReviewRequest{Status: models.StatusWithdrawn}
	request, err := h.workflow.Transition(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// CheckConflicts godoc
// @Summary Preview conflicts for a prospective request
// @Tags Requests
// @Produce json
// @Param pilotId query string false "Pilot ID (reviewers only; pilots check themselves)"
// @Param type query string true "Request type"
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /requests/check-conflicts [get]
func (h *RequestHandler) CheckConflicts(c *gin.Context) {
	if h.requests == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "request service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	req := dto.SubmitRequest{
		PilotID:   strings.TrimSpace(c.Query("pilotId")),
		Type:      models.RequestType(strings.ToUpper(strings.TrimSpace(c.Query("type")))),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	}
	report, err := h.requests.CheckConflicts(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Delete godoc
// @Summary Delete a request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	if h.requests == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "request service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.requests.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func paginationParams(c *gin.Context) (limit, offset int) {
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
