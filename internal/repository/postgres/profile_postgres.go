package postgres

import (
	"context"
	"database/sql"
	"time"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
)

// ProfilePostgres stores profiles as a JSONB document keyed by user ID.
type ProfilePostgres struct {
	db *sql.DB
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

func scanProfile(rs rowScanner) (*model.Profile, error) {
	var (
		p        model.Profile
		userID   string
		userType string
		data     []byte
		updated  time.Time
	)
	if err := rs.Scan(&userID, &userType, &data, &updated); err != nil {
		return nil, err
	}
	if err := fromJSONB(data, &p); err != nil {
		return nil, err
	}
	p.UserID = userID
	p.UserType = model.UserType(userType)
	p.UpdatedAt = updated
	return &p, nil
}

// Upsert inserts the profile or replaces the stored one.
func (r *ProfilePostgres) Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	data, err := toJSONB(p)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO profiles (user_id, user_type, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET user_type = EXCLUDED.user_type, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING user_id, user_type, data, updated_at
	`
	return scanProfile(r.db.QueryRowContext(ctx, q, p.UserID, string(p.UserType), data, p.UpdatedAt))
}

// FindByUserID fetches the profile of a user.
func (r *ProfilePostgres) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `
		SELECT user_id, user_type, data, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	return scanProfile(r.db.QueryRowContext(ctx, q, userID))
}
