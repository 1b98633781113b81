package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/skycruzer/fleet-management-v2-sub016/internal/dto"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	appErrors "github.com/skycruzer/fleet-management-v2-sub016/pkg/errors"
)

type transitioner interface {
	Transition(ctx context.Context, id string, req dto.ReviewRequest, actor *models.JWTClaims) (*models.PilotRequest, error)
}

type requestRemover interface {
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// BulkService fans one action out over a selection of requests. Items are
// processed sequentially and independently; one failure never aborts the
// rest, and the result always accounts for every input id.
type BulkService struct {
	workflow transitioner
	requests requestRemover
	logger   *zap.Logger
}

// NewBulkService constructs the service.
func NewBulkService(workflow transitioner, requests requestRemover, logger *zap.Logger) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkService{workflow: workflow, requests: requests, logger: logger}
}

// Apply executes the action over every request id in order.
func (s *BulkService) Apply(ctx context.Context, action dto.BulkAction, actor *models.JWTClaims) (*dto.BulkResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Reviewer() {
		return nil, appErrors.ErrForbidden
	}
	if len(action.RequestIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request_ids is required")
	}

	result := &dto.BulkResult{}
	for _, id := range action.RequestIDs {
		var err error
		switch action.Action {
		case "approve":
			_, err = s.workflow.Transition(ctx, id, dto.ReviewRequest{
				Status:   models.StatusApproved,
				Comments: action.Comments,
			}, actor)
		case "deny":
			_, err = s.workflow.Transition(ctx, id, dto.ReviewRequest{
				Status:   models.StatusDenied,
				Comments: action.Comments,
			}, actor)
		case "delete":
			err = s.requests.Delete(ctx, id, actor)
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "action must be approve, deny, or delete")
		}
		if err != nil {
			appErr := appErrors.FromError(err)
			result.FailCount++
			result.Failures = append(result.Failures, dto.BulkFailure{
				RequestID: id,
				Code:      appErr.Code,
				Message:   appErr.Message,
			})
			s.logger.Warn("bulk item failed",
				zap.String("request_id", id),
				zap.String("action", action.Action),
				zap.String("code", appErr.Code),
			)
			continue
		}
		result.SuccessCount++
	}
	return result, nil
}
