package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationTrendEmpty(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)
	points := RegistrationTrend(now, nil)

	require.Len(t, points, TrendDays)
	for _, p := range points {
		assert.Zero(t, p.Registrations)
	}
	assert.Equal(t, "Tue, Mar 4", points[0].Date)
	assert.Equal(t, "Mon, Mar 10", points[TrendDays-1].Date)
}

func TestRegistrationTrendBuckets(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)
	day := func(d, hour int) time.Time {
		return time.Date(2025, time.March, d, hour, 0, 0, 0, time.UTC)
	}
	times := []time.Time{
		day(10, 0),  // today, midnight boundary
		day(10, 12), // today
		day(8, 23),
		day(4, 9), // oldest day still in window
		day(3, 9), // outside window, ignored
		day(11, 1), // future, ignored
	}

	points := RegistrationTrend(now, times)
	require.Len(t, points, TrendDays)

	assert.Equal(t, "Tue, Mar 4", points[0].Date)
	assert.Equal(t, 1, points[0].Registrations)
	assert.Equal(t, 1, points[4].Registrations) // Mar 8
	assert.Equal(t, 0, points[5].Registrations) // Mar 9
	assert.Equal(t, 2, points[6].Registrations) // today

	total := 0
	for _, p := range points {
		total += p.Registrations
	}
	assert.Equal(t, 4, total)
}

func TestRegistrationTrendConvertsToLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2025, time.March, 10, 10, 0, 0, 0, loc)

	// 22:00 UTC on Mar 9 is already Mar 10 in Kolkata
	times := []time.Time{time.Date(2025, time.March, 9, 22, 0, 0, 0, time.UTC)}

	points := RegistrationTrend(now, times)
	require.Len(t, points, TrendDays)
	assert.Equal(t, 0, points[5].Registrations)
	assert.Equal(t, 1, points[6].Registrations)
}
