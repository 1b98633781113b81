package models

import (
	"time"

	"github.com/lib/pq"
)

// RequestCategory groups request types for routing and reporting.
type RequestCategory string

const (
	CategoryLeave    RequestCategory = "LEAVE"
	CategoryFlight   RequestCategory = "FLIGHT"
	CategoryLeaveBid RequestCategory = "LEAVE_BID"
)

// RequestType enumerates the concrete request kinds pilots can submit.
type RequestType string

const (
	RequestTypeAnnual        RequestType = "ANNUAL"
	RequestTypeSick          RequestType = "SICK"
	RequestTypeLSL           RequestType = "LSL"
	RequestTypeLWOP          RequestType = "LWOP"
	RequestTypeCompassionate RequestType = "COMPASSIONATE"
	RequestTypeRDO           RequestType = "RDO"
	RequestTypeSDO           RequestType = "SDO"
)

// Category returns the category a request type belongs to.
func (t RequestType) Category() RequestCategory {
	switch t {
	case RequestTypeRDO, RequestTypeSDO:
		return CategoryFlight
	default:
		return CategoryLeave
	}
}

// Valid reports whether the type is a supported value.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeAnnual, RequestTypeSick, RequestTypeLSL, RequestTypeLWOP,
		RequestTypeCompassionate, RequestTypeRDO, RequestTypeSDO:
		return true
	default:
		return false
	}
}

// SubmissionChannel records how a request entered the system.
type SubmissionChannel string

const (
	ChannelPilotPortal SubmissionChannel = "PILOT_PORTAL"
	ChannelEmail       SubmissionChannel = "EMAIL"
	ChannelPhone       SubmissionChannel = "PHONE"
	ChannelOracle      SubmissionChannel = "ORACLE"
	ChannelAdminPortal SubmissionChannel = "ADMIN_PORTAL"
)

// RequestStatus captures workflow lifecycle states for pilot requests.
type RequestStatus string

const (
	StatusDraft     RequestStatus = "DRAFT"
	StatusSubmitted RequestStatus = "SUBMITTED"
	StatusInReview  RequestStatus = "IN_REVIEW"
	StatusApproved  RequestStatus = "APPROVED"
	StatusDenied    RequestStatus = "DENIED"
	StatusWithdrawn RequestStatus = "WITHDRAWN"
)

// Terminal reports whether no further transitions are allowed from the status.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDenied || s == StatusWithdrawn
}

// Pending reports whether the request still awaits a reviewer decision.
func (s RequestStatus) Pending() bool {
	return s == StatusSubmitted || s == StatusInReview
}

// PilotRequest stores a submitted leave or flight request awaiting review.
type PilotRequest struct {
	ID             string          `db:"id" json:"id"`
	PilotID        string          `db:"pilot_id" json:"pilot_id"`
	EmployeeNumber string          `db:"employee_number" json:"employee_number"`
	Rank           PilotRank       `db:"rank" json:"rank"`
	Category       RequestCategory `db:"category" json:"category"`
	Type           RequestType     `db:"type" json:"type"`

	StartDate     time.Time      `db:"start_date" json:"start_date"`
	EndDate       *time.Time     `db:"end_date" json:"end_date,omitempty"`
	DaysCount     int            `db:"days_count" json:"days_count"`
	RosterPeriods pq.StringArray `db:"roster_periods" json:"roster_periods"`

	Channel        SubmissionChannel `db:"channel" json:"channel"`
	SubmissionDate time.Time         `db:"submission_date" json:"submission_date"`
	IsLateRequest  bool              `db:"is_late_request" json:"is_late_request"`
	IsPastDeadline bool              `db:"is_past_deadline" json:"is_past_deadline"`
	Reason         *string           `db:"reason" json:"reason,omitempty"`

	Status         RequestStatus `db:"status" json:"status"`
	ReviewedBy     *string       `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewComments *string       `db:"review_comments" json:"review_comments,omitempty"`

	PriorityScore int            `db:"priority_score" json:"priority_score"`
	ConflictFlags pq.StringArray `db:"conflict_flags" json:"conflict_flags"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveEnd returns the end date, falling back to the start date for
// single-day requests.
func (r *PilotRequest) EffectiveEnd() time.Time {
	if r.EndDate != nil {
		return *r.EndDate
	}
	return r.StartDate
}

// Overlaps reports whether the request's date range intersects [start, end],
// inclusive on both ends.
func (r *PilotRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EffectiveEnd())
}

// RequestFilter constrains request listing queries.
type RequestFilter struct {
	PilotID      string
	Statuses     []RequestStatus
	Category     RequestCategory
	Type         RequestType
	RosterPeriod string
	From         *time.Time
	To           *time.Time
	LateOnly     bool
	Limit        int
	Offset       int
}
