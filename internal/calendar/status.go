package calendar

import "github.com/ankit-yt/eventhub/internal/models"

// transitions is the allowed forward progression for a calendar entry.
// Cancelled is reachable from any non-terminal state; Completed and Cancelled
// are terminal.
var transitions = map[models.CalendarStatus][]models.CalendarStatus{
	models.StatusPlanned:    {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {},
	models.StatusCancelled:  {},
}

// CanTransition reports whether a calendar entry may move from one status to
// another. A same-status update is a no-op and always allowed.
func CanTransition(from, to models.CalendarStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
