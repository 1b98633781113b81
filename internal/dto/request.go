package dto

import (
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
)

// SubmitRequest payload for a new leave or flight request. Draft parks the
// request in DRAFT instead of entering the review queue; only pilots
// submitting for themselves may use it.
type SubmitRequest struct {
	PilotID   string                   `json:"pilot_id"`
	Type      models.RequestType       `json:"type" validate:"required"`
	StartDate string                   `json:"start_date" validate:"required"`
	EndDate   string                   `json:"end_date"`
	Reason    string                   `json:"reason"`
	Channel   models.SubmissionChannel `json:"channel"`
	Draft     bool                     `json:"draft"`
}

// ReviewRequest captures a reviewer decision. Comments are mandatory for
// denials; Force bypasses the crew-minimum gate on approval.
type ReviewRequest struct {
	Status   models.RequestStatus `json:"status" validate:"required"`
	Comments string               `json:"comments"`
	Force    bool                 `json:"force"`
}

// RequestQuery mirrors supported listing filters.
type RequestQuery struct {
	PilotID      string
	Statuses     []models.RequestStatus
	Category     models.RequestCategory
	Type         models.RequestType
	RosterPeriod string
	LateOnly     bool
	Limit        int
	Offset       int
}

// BulkAction applies one action to a selection of requests. Items are
// processed sequentially and independently; partial failure is expected.
type BulkAction struct {
	RequestIDs []string `json:"request_ids" validate:"required,min=1"`
	Action     string   `json:"action" validate:"required,oneof=approve deny delete"`
	Comments   string   `json:"comments"`
}

// BulkFailure records one failed item in a bulk action.
type BulkFailure struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BulkResult aggregates independent per-item outcomes.
type BulkResult struct {
	SuccessCount int           `json:"success_count"`
	FailCount    int           `json:"fail_count"`
	Failures     []BulkFailure `json:"failures,omitempty"`
}

// AvailabilityQuery parameters for a crew impact evaluation.
type AvailabilityQuery struct {
	Rank      models.PilotRank `json:"rank"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
}
