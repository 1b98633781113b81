package models

import "time"

// PilotRank represents the crew rank used for availability accounting.
type PilotRank string

const (
	RankCaptain      PilotRank = "CAPTAIN"
	RankFirstOfficer PilotRank = "FIRST_OFFICER"
)

// Valid reports whether the rank is one of the supported values.
func (r PilotRank) Valid() bool {
	return r == RankCaptain || r == RankFirstOfficer
}

// Pilot represents a crew member stored in the pilots table.
type Pilot struct {
	ID               string     `db:"id" json:"id"`
	EmployeeNumber   string     `db:"employee_number" json:"employee_number"`
	FullName         string     `db:"full_name" json:"full_name"`
	Email            string     `db:"email" json:"email"`
	Rank             PilotRank  `db:"rank" json:"rank"`
	SeniorityNumber  int        `db:"seniority_number" json:"seniority_number"`
	CommencementDate *time.Time `db:"commencement_date" json:"commencement_date,omitempty"`
	Active           bool       `db:"active" json:"active"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// PilotFilter captures filtering criteria for listing pilots.
type PilotFilter struct {
	Rank      *PilotRank
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
