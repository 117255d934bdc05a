package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankit-yt/eventhub/internal/models"
)

var (
	// ErrNotFound is returned when the calendar entry does not exist.
	ErrNotFound = errors.New("calendar entry not found")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInsufficientQuantity is returned when an allocation exceeds available equipment.
	ErrInsufficientQuantity = errors.New("insufficient equipment quantity available")
	// ErrEventAlreadyScheduled is returned when the event already has a calendar entry.
	ErrEventAlreadyScheduled = errors.New("event already has a calendar entry")
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx, so entry operations can run
// inside a caller-owned transaction (event create/delete pairs them atomically).
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UpdateParams holds partial-update fields; nil means keep the prior value.
// A non-nil Equipment or Personnel slice replaces the full list.
type UpdateParams struct {
	VenueID   *uuid.UUID
	Status    *models.CalendarStatus
	Notes     *string
	Equipment *[]models.AllocatedEquipment
	Personnel *[]models.AssignedPersonnel
}

// Repository handles calendar entry persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a calendar repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateEntryTx inserts a calendar entry with its allocations using the given
// transaction. Equipment is claimed with a conditional decrement so the
// available-quantity invariant holds even under concurrent scheduling.
func CreateEntryTx(ctx context.Context, q querier, entry *models.CalendarEntry) error {
	if entry.Status == "" {
		entry.Status = models.StatusPlanned
	}
	const insertQ = `INSERT INTO calendar_entries (event_id, venue_id, status, notes)
		VALUES ($1, $2, $3, NULLIF($4,''))
		RETURNING id, created_at, updated_at`
	err := q.QueryRow(ctx, insertQ, entry.EventID, entry.VenueID, string(entry.Status), entry.Notes).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEventAlreadyScheduled
		}
		return err
	}
	if err := claimEquipmentTx(ctx, q, entry.ID, entry.Equipment); err != nil {
		return err
	}
	return assignPersonnelTx(ctx, q, entry.ID, entry.Personnel)
}

// claimEquipmentTx decrements availability and records allocations for an entry.
func claimEquipmentTx(ctx context.Context, q querier, entryID uuid.UUID, allocs []models.AllocatedEquipment) error {
	for _, a := range allocs {
		if a.Quantity <= 0 {
			continue
		}
		tag, err := q.Exec(ctx,
			`UPDATE equipment SET available_quantity = available_quantity - $1, updated_at = NOW()
			WHERE id = $2 AND available_quantity >= $1`, a.Quantity, a.EquipmentID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientQuantity
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO calendar_equipment (entry_id, equipment_id, quantity) VALUES ($1, $2, $3)`,
			entryID, a.EquipmentID, a.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// releaseEquipmentTx returns all quantities held by an entry and clears its allocation rows.
func releaseEquipmentTx(ctx context.Context, q querier, entryID uuid.UUID) error {
	if _, err := q.Exec(ctx,
		`UPDATE equipment e SET available_quantity = LEAST(e.quantity, e.available_quantity + ce.quantity), updated_at = NOW()
		FROM calendar_equipment ce
		WHERE ce.entry_id = $1 AND e.id = ce.equipment_id`, entryID); err != nil {
		return err
	}
	_, err := q.Exec(ctx, `DELETE FROM calendar_equipment WHERE entry_id = $1`, entryID)
	return err
}

// ReleaseEquipmentForEventTx releases the allocations of the event's calendar entry,
// if any. Used when an event is deleted so the cascade does not strand quantities.
func ReleaseEquipmentForEventTx(ctx context.Context, q querier, eventID uuid.UUID) error {
	var entryID uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM calendar_entries WHERE event_id = $1`, eventID).Scan(&entryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return releaseEquipmentTx(ctx, q, entryID)
}

func assignPersonnelTx(ctx context.Context, q querier, entryID uuid.UUID, assignments []models.AssignedPersonnel) error {
	for _, p := range assignments {
		if _, err := q.Exec(ctx,
			`INSERT INTO calendar_personnel (entry_id, personnel_id, role) VALUES ($1, $2, $3)
			ON CONFLICT (entry_id, personnel_id) DO UPDATE SET role = EXCLUDED.role`,
			entryID, p.PersonnelID, p.Role); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a calendar entry for an existing event, claiming equipment atomically.
func (r *Repository) Create(ctx context.Context, entry *models.CalendarEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := CreateEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) loadEntry(ctx context.Context, q querier, row pgx.Row) (*models.CalendarEntry, error) {
	var e models.CalendarEntry
	var notes *string
	err := row.Scan(&e.ID, &e.EventID, &e.VenueID, &e.Status, &notes, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if notes != nil {
		e.Notes = *notes
	}
	if e.Equipment, err = r.entryEquipment(ctx, q, e.ID); err != nil {
		return nil, err
	}
	if e.Personnel, err = r.entryPersonnel(ctx, q, e.ID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) entryEquipment(ctx context.Context, q querier, entryID uuid.UUID) ([]models.AllocatedEquipment, error) {
	rows, err := q.Query(ctx, `SELECT ce.equipment_id, eq.name, ce.quantity
		FROM calendar_equipment ce
		JOIN equipment eq ON eq.id = ce.equipment_id
		WHERE ce.entry_id = $1 ORDER BY eq.name`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.AllocatedEquipment{}
	for rows.Next() {
		var a models.AllocatedEquipment
		if err := rows.Scan(&a.EquipmentID, &a.Name, &a.Quantity); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *Repository) entryPersonnel(ctx context.Context, q querier, entryID uuid.UUID) ([]models.AssignedPersonnel, error) {
	rows, err := q.Query(ctx, `SELECT cp.personnel_id, p.name, cp.role
		FROM calendar_personnel cp
		JOIN personnel p ON p.id = cp.personnel_id
		WHERE cp.entry_id = $1 ORDER BY p.name`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.AssignedPersonnel{}
	for rows.Next() {
		var p models.AssignedPersonnel
		if err := rows.Scan(&p.PersonnelID, &p.Name, &p.Role); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

const entryColumns = `id, event_id, venue_id, status, notes, created_at, updated_at`

// GetByID returns a calendar entry with its allocation lists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.CalendarEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM calendar_entries WHERE id = $1`, id)
	return r.loadEntry(ctx, r.pool, row)
}

// GetByEvent returns the calendar entry for an event.
func (r *Repository) GetByEvent(ctx context.Context, eventID uuid.UUID) (*models.CalendarEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM calendar_entries WHERE event_id = $1`, eventID)
	return r.loadEntry(ctx, r.pool, row)
}

// detail expands an entry with its event and venue. The venue join is LEFT: a
// deleted venue leaves the reference dangling and Venue nil.
func (r *Repository) detail(ctx context.Context, entry *models.CalendarEntry) (*models.CalendarEntryDetail, error) {
	d := &models.CalendarEntryDetail{CalendarEntry: *entry}

	const eventQ = `SELECT id, title, description, category, date, venue, COALESCE(banner_url,''),
		created_by, created_at, updated_at FROM events WHERE id = $1`
	var ev models.Event
	err := r.pool.QueryRow(ctx, eventQ, entry.EventID).Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Category,
		&ev.Date, &ev.Venue, &ev.BannerURL, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt)
	if err == nil {
		d.Event = &ev
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	const venueQ = `SELECT id, name, location, capacity, amenities, COALESCE(contact_person,''),
		COALESCE(contact_phone,''), created_at, updated_at FROM venues WHERE id = $1`
	var v models.Venue
	err = r.pool.QueryRow(ctx, venueQ, entry.VenueID).Scan(&v.ID, &v.Name, &v.Location, &v.Capacity,
		&v.Amenities, &v.ContactPerson, &v.ContactPhone, &v.CreatedAt, &v.UpdatedAt)
	if err == nil {
		d.Venue = &v
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return d, nil
}

// GetDetail returns a calendar entry with event and venue joined in.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.CalendarEntryDetail, error) {
	entry, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, entry)
}

// GetDetailByEvent returns the calendar entry for an event with detail joined in.
func (r *Repository) GetDetailByEvent(ctx context.Context, eventID uuid.UUID) (*models.CalendarEntryDetail, error) {
	entry, err := r.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, entry)
}

// List returns all calendar entries with event and venue detail, newest first.
func (r *Repository) List(ctx context.Context) ([]models.CalendarEntryDetail, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM calendar_entries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	entries := []models.CalendarEntry{}
	for rows.Next() {
		var e models.CalendarEntry
		var notes *string
		if err := rows.Scan(&e.ID, &e.EventID, &e.VenueID, &e.Status, &notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		if notes != nil {
			e.Notes = *notes
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list := []models.CalendarEntryDetail{}
	for i := range entries {
		e := &entries[i]
		if e.Equipment, err = r.entryEquipment(ctx, r.pool, e.ID); err != nil {
			return nil, err
		}
		if e.Personnel, err = r.entryPersonnel(ctx, r.pool, e.ID); err != nil {
			return nil, err
		}
		d, err := r.detail(ctx, e)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, nil
}

// Update applies a partial update. Status changes are validated against the
// lifecycle; replacing the equipment list releases the old allocations and claims
// the new ones in the same transaction.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.CalendarEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM calendar_entries WHERE id = $1 FOR UPDATE`, id)
	var current models.CalendarEntry
	var notes *string
	err = row.Scan(&current.ID, &current.EventID, &current.VenueID, &current.Status, &notes,
		&current.CreatedAt, &current.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Status != nil && !CanTransition(current.Status, *p.Status) {
		return nil, ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `UPDATE calendar_entries SET
		venue_id = COALESCE($1, venue_id),
		status = COALESCE($2, status),
		notes = COALESCE($3, notes),
		updated_at = NOW()
		WHERE id = $4`, p.VenueID, (*string)(p.Status), p.Notes, id); err != nil {
		return nil, err
	}

	if p.Equipment != nil {
		if err := releaseEquipmentTx(ctx, tx, id); err != nil {
			return nil, err
		}
		if err := claimEquipmentTx(ctx, tx, id, *p.Equipment); err != nil {
			return nil, err
		}
	}
	if p.Personnel != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM calendar_personnel WHERE entry_id = $1`, id); err != nil {
			return nil, err
		}
		if err := assignPersonnelTx(ctx, tx, id, *p.Personnel); err != nil {
			return nil, err
		}
	}

	row = tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM calendar_entries WHERE id = $1`, id)
	updated, err := r.loadEntry(ctx, tx, row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a calendar entry, releasing its equipment in the same transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := releaseEquipmentTx(ctx, tx, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM calendar_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
