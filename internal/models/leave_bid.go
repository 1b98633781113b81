package models

import "time"

// LeaveBidStatus captures the aggregate lifecycle of an annual leave bid.
type LeaveBidStatus string

const (
	BidStatusPending    LeaveBidStatus = "PENDING"
	BidStatusProcessing LeaveBidStatus = "PROCESSING"
	BidStatusApproved   LeaveBidStatus = "APPROVED"
	BidStatusRejected   LeaveBidStatus = "REJECTED"
)

// LeaveBidOptionStatus captures the independent decision on a single option.
type LeaveBidOptionStatus string

const (
	OptionStatusPending  LeaveBidOptionStatus = "PENDING"
	OptionStatusApproved LeaveBidOptionStatus = "APPROVED"
	OptionStatusRejected LeaveBidOptionStatus = "REJECTED"
)

// LeaveBid is an annual leave preference submission with ranked options.
type LeaveBid struct {
	ID          string           `db:"id" json:"id"`
	PilotID     string           `db:"pilot_id" json:"pilot_id"`
	BidYear     int              `db:"bid_year" json:"bid_year"`
	Status      LeaveBidStatus   `db:"status" json:"status"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
	SubmittedAt time.Time        `db:"submitted_at" json:"submitted_at"`
	ReviewedBy  *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	Options     []LeaveBidOption `db:"-" json:"options"`
}

// LeaveBidOption is one ranked date-range choice within a bid. Decisions are
// keyed by the option's stable id, never its position.
type LeaveBidOption struct {
	ID        string               `db:"id" json:"id"`
	BidID     string               `db:"bid_id" json:"bid_id"`
	Priority  int                  `db:"priority" json:"priority"`
	StartDate time.Time            `db:"start_date" json:"start_date"`
	EndDate   time.Time            `db:"end_date" json:"end_date"`
	Status    LeaveBidOptionStatus `db:"status" json:"status"`
}

// LeaveBidFilter constrains bid listing queries.
type LeaveBidFilter struct {
	PilotID string
	BidYear int
	Status  LeaveBidStatus
	Limit   int
	Offset  int
}
