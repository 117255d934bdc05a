package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankit-yt/eventhub/internal/models"
)

// ErrNotFound is returned when the user does not exist.
var ErrNotFound = errors.New("user not found")

// Profile is a user with their registered events joined from the ledger.
type Profile struct {
	models.UserPublic
	RegisteredEvents []models.RegisteredEvent `json:"registered_events"`
}

// Repository handles user profile persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile returns a user with their registered events, derived from the ledger.
func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	const q = `SELECT id, name, email, role, COALESCE(avatar_url,''), created_at FROM users WHERE id = $1`
	var p Profile
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.RegisteredEvents, err = r.registeredEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) registeredEvents(ctx context.Context, userID uuid.UUID) ([]models.RegisteredEvent, error) {
	const q = `SELECT e.id, e.title, e.date, er.registered_at
		FROM event_registrations er
		JOIN events e ON e.id = er.event_id
		WHERE er.user_id = $1
		ORDER BY e.date`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.RegisteredEvent{}
	for rows.Next() {
		var e models.RegisteredEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// UpdateProfile updates the user's name and/or avatar; nil keeps the prior value.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name, avatarURL *string) (*models.UserPublic, error) {
	const q = `UPDATE users SET
		name = COALESCE($1, name),
		avatar_url = COALESCE($2, avatar_url),
		updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, email, role, COALESCE(avatar_url,''), created_at`
	var u models.UserPublic
	err := r.pool.QueryRow(ctx, q, name, avatarURL, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users with their registered events, newest users first.
func (r *Repository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, role, COALESCE(avatar_url,''), created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.AvatarURL, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		profiles = append(profiles, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range profiles {
		profiles[i].RegisteredEvents, err = r.registeredEvents(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return profiles, nil
}
