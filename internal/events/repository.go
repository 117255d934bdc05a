package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankit-yt/eventhub/internal/calendar"
	"github.com/ankit-yt/eventhub/internal/models"
)

var (
	// ErrNotFound is returned when the event does not exist.
	ErrNotFound = errors.New("event not found")
	// ErrAlreadyRegistered is returned when the user is already on the ledger for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

// ScheduleParams describes the calendar entry created together with an event.
type ScheduleParams struct {
	VenueID   uuid.UUID
	Equipment []models.AllocatedEquipment
	Personnel []models.AssignedPersonnel
	Notes     string
}

// UpdateParams holds partial-update fields; nil means keep the prior value.
type UpdateParams struct {
	Title       *string
	Description *string
	Category    *string
	Date        *time.Time
	Venue       *string
	BannerURL   *string
}

// Repository handles event and registration-ledger persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all events sorted by date ascending, with registration counts
// derived from the ledger.
func (r *Repository) List(ctx context.Context) ([]models.EventWithCounts, error) {
	const q = `SELECT e.id, e.title, e.description, e.category, e.date, e.venue, COALESCE(e.banner_url,''),
		e.created_by, e.created_at, e.updated_at,
		(SELECT COUNT(*) FROM event_registrations er WHERE er.event_id = e.id)
		FROM events e ORDER BY e.date ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.EventWithCounts
	for rows.Next() {
		var e models.EventWithCounts
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Date, &e.Venue, &e.BannerURL,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.AttendeeCount); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT id, title, description, category, date, venue, COALESCE(banner_url,''),
		created_by, created_at, updated_at FROM events WHERE id = $1`
	var e models.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Date,
		&e.Venue, &e.BannerURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetDetail returns an event with its creator and attendee list joined in.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.EventDetail, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.EventDetail{Event: *e, Attendees: []models.UserPublic{}}

	const creatorQ = `SELECT id, name, email, role, COALESCE(avatar_url,''), created_at FROM users WHERE id = $1`
	var creator models.UserPublic
	if err := r.pool.QueryRow(ctx, creatorQ, e.CreatedBy).Scan(&creator.ID, &creator.Name, &creator.Email,
		&creator.Role, &creator.AvatarURL, &creator.CreatedAt); err == nil {
		detail.Creator = &creator
	}

	attendees, err := r.Attendees(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, a := range attendees {
		detail.Attendees = append(detail.Attendees, a.UserPublic)
	}
	return detail, nil
}

// Create inserts an event. When schedule is non-nil, the calendar entry (with its
// equipment allocations and personnel assignments) is created in the same
// transaction, so both succeed or neither does.
func (r *Repository) Create(ctx context.Context, e *models.Event, schedule *ScheduleParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO events (title, description, category, date, venue, banner_url, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, q, e.Title, e.Description, e.Category, e.Date, e.Venue, e.BannerURL, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}

	if schedule != nil {
		entry := &models.CalendarEntry{
			EventID:   e.ID,
			VenueID:   schedule.VenueID,
			Equipment: schedule.Equipment,
			Personnel: schedule.Personnel,
			Status:    models.StatusPlanned,
			Notes:     schedule.Notes,
		}
		if err := calendar.CreateEntryTx(ctx, tx, entry); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update applies a partial update; unspecified fields retain their prior value.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Event, error) {
	const q = `UPDATE events SET
		title = COALESCE($1, title),
		description = COALESCE($2, description),
		category = COALESCE($3, category),
		date = COALESCE($4, date),
		venue = COALESCE($5, venue),
		banner_url = COALESCE($6, banner_url),
		updated_at = NOW()
		WHERE id = $7
		RETURNING id, title, description, category, date, venue, COALESCE(banner_url,''),
		created_by, created_at, updated_at`
	var e models.Event
	err := r.pool.QueryRow(ctx, q, p.Title, p.Description, p.Category, p.Date, p.Venue, p.BannerURL, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Date, &e.Venue, &e.BannerURL,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes an event together with its calendar entry and ledger rows in one
// transaction. Equipment held by the calendar entry is released first, so the
// availability invariant survives the cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := calendar.ReleaseEquipmentForEventTx(ctx, tx, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// isForeignKeyViolation reports whether err is a Postgres FK violation (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// Register appends the user to the event's ledger. The insert is conditional on the
// (event_id, user_id) primary key, so concurrent identical requests cannot
// double-append; the loser observes zero affected rows.
func (r *Repository) Register(ctx context.Context, eventID, userID uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO event_registrations (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		eventID, userID)
	if err != nil {
		// event deleted between the existence check and the insert
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyRegistered
	}
	return nil
}

// Unregister removes the user from the event's ledger. Removing a non-member is a no-op.
func (r *Repository) Unregister(ctx context.Context, eventID, userID uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	return err
}

// Attendees returns the registered users for an event, newest registration first.
func (r *Repository) Attendees(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error) {
	const q = `SELECT u.id, u.name, u.email, u.role, COALESCE(u.avatar_url,''), u.created_at, er.registered_at
		FROM event_registrations er
		JOIN users u ON u.id = er.user_id
		WHERE er.event_id = $1
		ORDER BY er.registered_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Attendee{}
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.AvatarURL, &a.CreatedAt, &a.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// SetBannerURL stores the banner object URL for an event.
func (r *Repository) SetBannerURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET banner_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
