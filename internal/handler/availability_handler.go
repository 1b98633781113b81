package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/response"
)

type availabilityService interface {
	Evaluate(ctx context.Context, start, end time.Time, candidate *models.PilotRequest) (*models.CrewImpact, error)
}

// AvailabilityHandler exposes crew availability evaluation.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Evaluate godoc
// @Summary Evaluate crew availability over a date window
// @Tags Availability
// @Produce json
// @Param startDate query string true "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD). Defaults to startDate"
// @Success 200 {object} response.Envelope
// @Router /availability/impact [get]
func (h *AvailabilityHandler) Evaluate(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "availability service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	startRaw := strings.TrimSpace(c.Query("startDate"))
	if startRaw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "startDate is required"))
		return
	}
	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid startDate, expected YYYY-MM-DD"))
		return
	}
	end := start
	if endRaw := strings.TrimSpace(c.Query("endDate")); endRaw != "" {
		end, err = time.Parse("2006-01-02", endRaw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid endDate, expected YYYY-MM-DD"))
			return
		}
	}
	impact, err := h.service.Evaluate(c.Request.Context(), start, end, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, impact, nil)
}
