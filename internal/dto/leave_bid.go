package dto

// SubmitLeaveBid payload for an annual leave preference submission.
type SubmitLeaveBid struct {
	PilotID string               `json:"pilot_id"`
	BidYear int                  `json:"bid_year" validate:"required"`
	Notes   string               `json:"notes"`
	Options []SubmitLeaveBidSlot `json:"options" validate:"required,min=1,dive"`
}

// SubmitLeaveBidSlot is one ranked date-range choice.
type SubmitLeaveBidSlot struct {
	Priority  int    `json:"priority" validate:"required,min=1"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// ReviewLeaveBid captures an aggregate bid decision.
type ReviewLeaveBid struct {
	BidID  string `json:"bid_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// ReviewLeaveBidOption captures an independent per-option decision, keyed by
// the option's stable id.
type ReviewLeaveBidOption struct {
	BidID    string `json:"bid_id" validate:"required"`
	OptionID string `json:"option_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=approve reject"`
}
