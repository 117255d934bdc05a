package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Summary is a one-shot snapshot of catalog sizes and registration volume.
type Summary struct {
	TotalEvents        int `json:"total_events"`
	UpcomingEvents     int `json:"upcoming_events"`
	TotalRegistrations int `json:"total_registrations"`
	TotalVenues        int `json:"total_venues"`
	TotalEquipment     int `json:"total_equipment"`
	TotalPersonnel     int `json:"total_personnel"`
}

// Repository reads aggregate figures straight off the ledger tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RegistrationTimes returns the timestamps of all registrations since the given
// cutoff, across every event.
func (r *Repository) RegistrationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT registered_at FROM event_registrations WHERE registered_at >= $1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		times = append(times, ts)
	}
	return times, rows.Err()
}

// GetSummary returns aggregate counts for the dashboard.
func (r *Repository) GetSummary(ctx context.Context) (*Summary, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM events),
		(SELECT COUNT(*) FROM events WHERE date >= NOW()),
		(SELECT COUNT(*) FROM event_registrations),
		(SELECT COUNT(*) FROM venues),
		(SELECT COUNT(*) FROM equipment),
		(SELECT COUNT(*) FROM personnel)`
	var s Summary
	err := r.pool.QueryRow(ctx, q).Scan(&s.TotalEvents, &s.UpcomingEvents,
		&s.TotalRegistrations, &s.TotalVenues, &s.TotalEquipment, &s.TotalPersonnel)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
