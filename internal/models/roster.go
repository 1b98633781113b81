package models

import (
	"fmt"
	"time"
)

// Roster periods are fixed 28-day scheduling windows numbered RP1..RP13 per
// cycle year. rosterEpoch is the first day of RP1/2024.
var rosterEpoch = time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)

const (
	rosterPeriodDays   = 28
	rosterPeriodsCycle = 13
)

// RosterPeriod identifies a single 28-day operational window.
type RosterPeriod struct {
	Number int `json:"number"`
	Year   int `json:"year"`
}

// Code renders the period identifier, e.g. "RP13/2025".
func (p RosterPeriod) Code() string {
	return fmt.Sprintf("RP%d/%d", p.Number, p.Year)
}

// StartDate returns the first day of the period.
func (p RosterPeriod) StartDate() time.Time {
	index := (p.Year-rosterEpoch.Year())*rosterPeriodsCycle + (p.Number - 1)
	return rosterEpoch.AddDate(0, 0, index*rosterPeriodDays)
}

// EndDate returns the last day of the period (inclusive).
func (p RosterPeriod) EndDate() time.Time {
	return p.StartDate().AddDate(0, 0, rosterPeriodDays-1)
}

// RosterPeriodFor returns the period containing the given date. Dates before
// the epoch clamp to RP1 of the epoch year.
func RosterPeriodFor(date time.Time) RosterPeriod {
	days := int(date.Sub(rosterEpoch).Hours() / 24)
	if days < 0 {
		days = 0
	}
	index := days / rosterPeriodDays
	return RosterPeriod{
		Number: index%rosterPeriodsCycle + 1,
		Year:   rosterEpoch.Year() + index/rosterPeriodsCycle,
	}
}

// RosterPeriodsForRange returns the ordered set of periods a date range spans,
// inclusive on both ends.
func RosterPeriodsForRange(start, end time.Time) []RosterPeriod {
	if end.Before(start) {
		end = start
	}
	periods := make([]RosterPeriod, 0, 2)
	current := RosterPeriodFor(start)
	last := RosterPeriodFor(end)
	for {
		periods = append(periods, current)
		if current == last {
			return periods
		}
		current = RosterPeriodFor(current.EndDate().AddDate(0, 0, 1))
	}
}

// RosterPeriodCodes renders period codes for persistence on a request row.
func RosterPeriodCodes(start, end time.Time) []string {
	periods := RosterPeriodsForRange(start, end)
	codes := make([]string, len(periods))
	for i, p := range periods {
		codes[i] = p.Code()
	}
	return codes
}
