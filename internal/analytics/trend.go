package analytics

import "time"

// TrendPoint is one day in the registration trend.
type TrendPoint struct {
	Date          string `json:"date"`
	Registrations int    `json:"registrations"`
}

// TrendDays is the window the registration trend covers, today included.
const TrendDays = 7

// RegistrationTrend buckets registration timestamps into the trailing TrendDays
// calendar days ending at now, in now's location. Days with no registrations
// appear with a zero count; the result runs oldest to newest. Timestamps outside
// the window are ignored.
func RegistrationTrend(now time.Time, registeredAt []time.Time) []TrendPoint {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(TrendDays - 1))

	counts := make(map[string]int, TrendDays)
	for _, ts := range registeredAt {
		local := ts.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if day.Before(start) || day.After(today) {
			continue
		}
		counts[day.Format("2006-01-02")]++
	}

	points := make([]TrendPoint, 0, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := start.AddDate(0, 0, i)
		points = append(points, TrendPoint{
			Date:          day.Format("Mon, Jan 2"),
			Registrations: counts[day.Format("2006-01-02")],
		})
	}
	return points
}
