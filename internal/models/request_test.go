package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPilotRequestOverlapsInclusiveBoundary(t *testing.T) {
	end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	existing := &PilotRequest{
		StartDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}

	// a candidate ending on the existing request's start day conflicts
	assert.True(t, existing.Overlaps(
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	))
	assert.True(t, existing.Overlaps(
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	))
	assert.False(t, existing.Overlaps(
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	))
	assert.False(t, existing.Overlaps(
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	))
}

func TestPilotRequestOverlapsSingleDay(t *testing.T) {
	single := &PilotRequest{StartDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)}
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	assert.True(t, single.Overlaps(day, day))
	assert.False(t, single.Overlaps(day.AddDate(0, 0, 1), day.AddDate(0, 0, 3)))
}
