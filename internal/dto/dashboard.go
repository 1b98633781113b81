package dto

import "github.com/skycruzer/fleet-management-v2-sub016/internal/models"

// DashboardStatsResponse captures the aggregated admin dashboard payload.
type DashboardStatsResponse struct {
	ByStatus        []StatusBucket    `json:"by_status"`
	ByCategory      []CategoryBucket  `json:"by_category"`
	PendingByPeriod []PeriodBucket    `json:"pending_by_period"`
	Availability    AvailabilityStats `json:"availability"`
}

// StatusBucket counts requests per workflow status.
type StatusBucket struct {
	Status models.RequestStatus `json:"status"`
	Count  int                  `json:"count"`
}

// CategoryBucket counts requests per category.
type CategoryBucket struct {
	Category models.RequestCategory `json:"category"`
	Count    int                    `json:"count"`
}

// PeriodBucket counts pending requests per roster period.
type PeriodBucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// AvailabilityStats snapshots today's available headcount per rank.
type AvailabilityStats struct {
	CaptainsAvailable      int  `json:"captains_available"`
	FirstOfficersAvailable int  `json:"first_officers_available"`
	MinimumRequired        int  `json:"minimum_required"`
	BelowMinimum           bool `json:"below_minimum"`
}
