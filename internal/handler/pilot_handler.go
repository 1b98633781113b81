package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/response"
)

type pilotService interface {
	Create(ctx context.Context, req dto.CreatePilot, actor *models.JWTClaims) (*models.Pilot, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Pilot, error)
	List(ctx context.Context, query dto.PilotQuery, actor *models.JWTClaims) ([]models.Pilot, *models.Pagination, error)
	Update(ctx context.Context, id string, req dto.UpdatePilot, actor *models.JWTClaims) (*models.Pilot, error)
	Deactivate(ctx context.Context, id string, actor *models.JWTClaims) error
}

// PilotHandler manages crew roster endpoints.
type PilotHandler struct {
	service pilotService
}

// NewPilotHandler constructs the handler.
func NewPilotHandler(service pilotService) *PilotHandler {
	return &PilotHandler{service: service}
}

// Create godoc
// @Summary Register a pilot
// @Tags Pilots
// @Accept json
// @Produce json
// @Param payload body dto.CreatePilot true "Pilot payload"
// @Success 201 {object} response.Envelope
// @Router /pilots [post]
func (h *PilotHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pilot service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreatePilot
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pilot payload"))
		return
	}
	pilot, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, pilot, nil)
}

// List godoc
// @Summary List pilots
// @Tags Pilots
// @Produce json
// @Param rank query string false "Rank filter"
// @Param active query bool false "Active filter"
// @Param search query string false "Name or employee number search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /pilots [get]
func (h *PilotHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pilot service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.PilotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pilot query"))
		return
	}
	pilots, pagination, err := h.service.List(c.Request.Context(), query, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pilots, pagination)
}

// Get godoc
// @Summary Get pilot detail
// @Tags Pilots
// @Produce json
// @Param id path string true "Pilot ID"
// @Success 200 {object} response.Envelope
// @Router /pilots/{id} [get]
func (h *PilotHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pilot service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	pilot, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pilot, nil)
}

// Update godoc
// @Summary Update pilot details
// @Tags Pilots
// @Accept json
// @Produce json
// @Param id path string true "Pilot ID"
// @Param payload body dto.UpdatePilot true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /pilots/{id} [put]
func (h *PilotHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pilot service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdatePilot
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pilot payload"))
		return
	}
	pilot, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pilot, nil)
}

// Deactivate godoc
// @Summary Deactivate a pilot
// @Tags Pilots
// @Produce json
// @Param id path string true "Pilot ID"
// @Success 200 {object} response.Envelope
// @Router /pilots/{id} [delete]
func (h *PilotHandler) Deactivate(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pilot service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deactivated": true}, nil)
}
