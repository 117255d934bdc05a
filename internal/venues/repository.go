package venues

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankit-yt/eventhub/internal/models"
)

// ErrNotFound is returned when the venue does not exist.
var ErrNotFound = errors.New("venue not found")

// UpdateParams holds partial-update fields; nil means keep the prior value.
type UpdateParams struct {
	Name          *string
	Location      *string
	Capacity      *int
	Amenities     *[]string
	ContactPerson *string
	ContactPhone  *string
}

// Repository handles venue persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a venues repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const venueColumns = `id, name, location, capacity, amenities, COALESCE(contact_person,''),
	COALESCE(contact_phone,''), created_at, updated_at`

func scanVenue(row pgx.Row) (*models.Venue, error) {
	var v models.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.Amenities,
		&v.ContactPerson, &v.ContactPhone, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all venues ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Venue{}
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.Amenities,
			&v.ContactPerson, &v.ContactPhone, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetByID returns a venue by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	return scanVenue(r.pool.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id))
}

// Create inserts a new venue.
func (r *Repository) Create(ctx context.Context, v *models.Venue) error {
	const q = `INSERT INTO venues (name, location, capacity, amenities, contact_person, contact_phone)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''))
		RETURNING id, created_at, updated_at`
	if v.Amenities == nil {
		v.Amenities = []string{}
	}
	return r.pool.QueryRow(ctx, q, v.Name, v.Location, v.Capacity, v.Amenities, v.ContactPerson, v.ContactPhone).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// Update applies a partial update; unspecified fields retain their prior value.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Venue, error) {
	const q = `UPDATE venues SET
		name = COALESCE($1, name),
		location = COALESCE($2, location),
		capacity = COALESCE($3, capacity),
		amenities = COALESCE($4, amenities),
		contact_person = COALESCE($5, contact_person),
		contact_phone = COALESCE($6, contact_phone),
		updated_at = NOW()
		WHERE id = $7
		RETURNING ` + venueColumns
	return scanVenue(r.pool.QueryRow(ctx, q, p.Name, p.Location, p.Capacity, p.Amenities, p.ContactPerson, p.ContactPhone, id))
}

// Delete removes a venue by ID. Calendar entries referencing it keep their
// dangling venue_id (documented accepted risk).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
