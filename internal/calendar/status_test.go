package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ankit-yt/eventhub/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.CalendarStatus
		want     bool
	}{
		{models.StatusPlanned, models.StatusConfirmed, true},
		{models.StatusPlanned, models.StatusCancelled, true},
		{models.StatusPlanned, models.StatusInProgress, false},
		{models.StatusPlanned, models.StatusCompleted, false},

		{models.StatusConfirmed, models.StatusInProgress, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusPlanned, false},
		{models.StatusConfirmed, models.StatusCompleted, false},

		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusInProgress, models.StatusCancelled, true},
		{models.StatusInProgress, models.StatusPlanned, false},
		{models.StatusInProgress, models.StatusConfirmed, false},

		// terminal states absorb
		{models.StatusCompleted, models.StatusPlanned, false},
		{models.StatusCompleted, models.StatusConfirmed, false},
		{models.StatusCompleted, models.StatusInProgress, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPlanned, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
		{models.StatusCancelled, models.StatusInProgress, false},
		{models.StatusCancelled, models.StatusCompleted, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionSelfIsNoOp(t *testing.T) {
	for _, s := range []models.CalendarStatus{
		models.StatusPlanned, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	} {
		assert.True(t, CanTransition(s, s), "%s -> %s", s, s)
	}
}
