package personnel

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankit-yt/eventhub/internal/models"
)

// ErrNotFound is returned when the staff member does not exist.
var ErrNotFound = errors.New("personnel not found")

// UpdateParams holds partial-update fields; nil means keep the prior value.
type UpdateParams struct {
	Name   *string
	Role   *models.PersonnelRole
	Email  *string
	Phone  *string
	Skills *[]string
}

// Repository handles personnel persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a personnel repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const personnelColumns = `id, name, role, email, phone, skills, created_at, updated_at`

func scanPersonnel(row pgx.Row) (*models.Personnel, error) {
	var p models.Personnel
	err := row.Scan(&p.ID, &p.Name, &p.Role, &p.Email, &p.Phone, &p.Skills, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all personnel ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Personnel, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+personnelColumns+` FROM personnel ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Personnel{}
	for rows.Next() {
		var p models.Personnel
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Email, &p.Phone, &p.Skills, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID returns a staff member by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Personnel, error) {
	return scanPersonnel(r.pool.QueryRow(ctx, `SELECT `+personnelColumns+` FROM personnel WHERE id = $1`, id))
}

// GetDetail returns a staff member with live event assignments joined in.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.PersonnelDetail, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT en.event_id, ev.title, ev.date, cp.role
		FROM calendar_personnel cp
		JOIN calendar_entries en ON en.id = cp.entry_id
		JOIN events ev ON ev.id = en.event_id
		WHERE cp.personnel_id = $1
		ORDER BY ev.date`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &models.PersonnelDetail{Personnel: *p, Assignments: []models.PersonnelAssignment{}}
	for rows.Next() {
		var a models.PersonnelAssignment
		if err := rows.Scan(&a.EventID, &a.EventTitle, &a.EventDate, &a.Role); err != nil {
			return nil, err
		}
		detail.Assignments = append(detail.Assignments, a)
	}
	return detail, rows.Err()
}

// Create inserts a new staff member.
func (r *Repository) Create(ctx context.Context, p *models.Personnel) error {
	const q = `INSERT INTO personnel (name, role, email, phone, skills)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return r.pool.QueryRow(ctx, q, p.Name, string(p.Role), p.Email, p.Phone, p.Skills).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update applies a partial update; unspecified fields retain their prior value.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Personnel, error) {
	const q = `UPDATE personnel SET
		name = COALESCE($1, name),
		role = COALESCE($2, role),
		email = COALESCE($3, email),
		phone = COALESCE($4, phone),
		skills = COALESCE($5, skills),
		updated_at = NOW()
		WHERE id = $6
		RETURNING ` + personnelColumns
	return scanPersonnel(r.pool.QueryRow(ctx, q, p.Name, (*string)(p.Role), p.Email, p.Phone, p.Skills, id))
}

// Delete removes a staff member by ID. Fails while calendar entries still
// reference them (foreign key).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personnel WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
