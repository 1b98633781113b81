package models

// ConflictType classifies a detected problem for a candidate request.
type ConflictType string

const (
	ConflictOverlappingRequest ConflictType = "OVERLAPPING_REQUEST"
	ConflictCrewBelowMinimum   ConflictType = "CREW_BELOW_MINIMUM"
	ConflictMultiplePending    ConflictType = "MULTIPLE_PENDING"
	ConflictDuplicateRequest   ConflictType = "DUPLICATE_REQUEST"
)

// ConflictSeverity orders conflicts for display grouping and blocking policy.
type ConflictSeverity string

const (
	SeverityLow      ConflictSeverity = "LOW"
	SeverityMedium   ConflictSeverity = "MEDIUM"
	SeverityHigh     ConflictSeverity = "HIGH"
	SeverityCritical ConflictSeverity = "CRITICAL"
)

var severityRank = map[ConflictSeverity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordinal used to order severities (LOW < MEDIUM < HIGH < CRITICAL).
func (s ConflictSeverity) Rank() int {
	return severityRank[s]
}

// Conflict describes a single detected problem with context for display.
type Conflict struct {
	Type     ConflictType      `json:"type"`
	Severity ConflictSeverity  `json:"severity"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
}

// Blocking reports whether the conflict must gate approval absent an override.
func (c Conflict) Blocking() bool {
	return c.Severity == SeverityCritical
}

// ConflictReport is the result of evaluating a candidate date range.
type ConflictReport struct {
	HasConflict bool       `json:"has_conflict"`
	Conflicts   []Conflict `json:"conflicts"`
}

// HasBlocking reports whether any conflict in the report gates approval.
func (r ConflictReport) HasBlocking() bool {
	for _, c := range r.Conflicts {
		if c.Blocking() {
			return true
		}
	}
	return false
}

// CrewImpact summarises before/after availability per rank for a prospective approval.
type CrewImpact struct {
	CaptainsBefore      int  `json:"captains_before"`
	CaptainsAfter       int  `json:"captains_after"`
	FirstOfficersBefore int  `json:"first_officers_before"`
	FirstOfficersAfter  int  `json:"first_officers_after"`
	MinimumRequired     int  `json:"minimum_required"`
	BelowMinimum        bool `json:"below_minimum"`
}
