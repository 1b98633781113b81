package dto

import "github.com/skycruzer/fleet-management-v2-sub016/internal/models"

// CreatePilot payload for registering a crew member.
type CreatePilot struct {
	EmployeeNumber   string           `json:"employee_number" validate:"required"`
	FullName         string           `json:"full_name" validate:"required"`
	Email            string           `json:"email" validate:"required,email"`
	Rank             models.PilotRank `json:"rank" validate:"required"`
	SeniorityNumber  int              `json:"seniority_number" validate:"required,min=1"`
	CommencementDate string           `json:"commencement_date"`
}

// UpdatePilot payload; nil fields are left unchanged.
type UpdatePilot struct {
	FullName        *string           `json:"full_name"`
	Email           *string           `json:"email" validate:"omitempty,email"`
	Rank            *models.PilotRank `json:"rank"`
	SeniorityNumber *int              `json:"seniority_number" validate:"omitempty,min=1"`
	Active          *bool             `json:"active"`
}

// PilotQuery mirrors supported listing filters.
type PilotQuery struct {
	Rank      string `form:"rank"`
	Active    *bool  `form:"active"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}
