package equipment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankit-yt/eventhub/internal/models"
)

var (
	// ErrNotFound is returned when the equipment does not exist.
	ErrNotFound = errors.New("equipment not found")
	// ErrQuantityBelowAllocated is returned when a quantity update would drop the
	// pool below what calendar entries currently hold.
	ErrQuantityBelowAllocated = errors.New("quantity is less than currently allocated amount")
)

// UpdateParams holds partial-update fields; nil means keep the prior value.
// AvailableQuantity is intentionally absent: availability is derived from the
// total minus live allocations and can never be edited independently.
type UpdateParams struct {
	Name                *string
	Category            *models.EquipmentCategory
	Quantity            *int
	Description         *string
	Condition           *models.EquipmentCondition
	LastMaintenanceDate *time.Time
}

// Repository handles equipment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an equipment repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const equipmentColumns = `id, name, category, quantity, available_quantity, COALESCE(description,''),
	condition, last_maintenance_date, created_at, updated_at`

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Quantity, &e.AvailableQuantity, &e.Description,
		&e.Condition, &e.LastMaintenanceDate, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all equipment ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Equipment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Equipment{}
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Quantity, &e.AvailableQuantity, &e.Description,
			&e.Condition, &e.LastMaintenanceDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// GetByID returns equipment by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	return scanEquipment(r.pool.QueryRow(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1`, id))
}

// GetDetail returns equipment with its live calendar allocations joined in.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.EquipmentDetail, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT en.event_id, ev.title, ce.quantity, ce.allocated_at
		FROM calendar_equipment ce
		JOIN calendar_entries en ON en.id = ce.entry_id
		JOIN events ev ON ev.id = en.event_id
		WHERE ce.equipment_id = $1
		ORDER BY ce.allocated_at DESC`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &models.EquipmentDetail{Equipment: *e, Allocations: []models.EquipmentAllocation{}}
	for rows.Next() {
		var a models.EquipmentAllocation
		if err := rows.Scan(&a.EventID, &a.EventTitle, &a.Quantity, &a.Date); err != nil {
			return nil, err
		}
		detail.Allocations = append(detail.Allocations, a)
	}
	return detail, rows.Err()
}

// Create inserts new equipment with the full quantity available.
func (r *Repository) Create(ctx context.Context, e *models.Equipment) error {
	const q = `INSERT INTO equipment (name, category, quantity, available_quantity, description, condition, last_maintenance_date)
		VALUES ($1, $2, $3, $3, NULLIF($4,''), $5, $6)
		RETURNING id, available_quantity, created_at, updated_at`
	if e.Condition == "" {
		e.Condition = models.ConditionGood
	}
	return r.pool.QueryRow(ctx, q, e.Name, string(e.Category), e.Quantity, e.Description,
		string(e.Condition), e.LastMaintenanceDate).
		Scan(&e.ID, &e.AvailableQuantity, &e.CreatedAt, &e.UpdatedAt)
}

// Update applies a partial update. A quantity change shifts available_quantity by
// the same delta so the invariant available = quantity - allocated holds; shrinking
// the pool below the allocated amount is rejected.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Equipment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var quantity, available int
	err = tx.QueryRow(ctx, `SELECT quantity, available_quantity FROM equipment WHERE id = $1 FOR UPDATE`, id).
		Scan(&quantity, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Quantity != nil {
		allocated := quantity - available
		if *p.Quantity < allocated {
			return nil, ErrQuantityBelowAllocated
		}
		available = *p.Quantity - allocated
		quantity = *p.Quantity
	}

	const q = `UPDATE equipment SET
		name = COALESCE($1, name),
		category = COALESCE($2, category),
		quantity = $3,
		available_quantity = $4,
		description = COALESCE($5, description),
		condition = COALESCE($6, condition),
		last_maintenance_date = COALESCE($7, last_maintenance_date),
		updated_at = NOW()
		WHERE id = $8
		RETURNING ` + equipmentColumns
	e, err := scanEquipment(tx.QueryRow(ctx, q, p.Name, (*string)(p.Category), quantity, available,
		p.Description, (*string)(p.Condition), p.LastMaintenanceDate, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes equipment by ID. Fails while calendar entries still hold allocations
// (foreign key), which keeps the availability ledger honest.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
