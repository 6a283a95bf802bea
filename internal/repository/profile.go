package repository

import (
	"context"

	"schemeagent/internal/model"
)

// ProfileRepository stores one profile per user.
type ProfileRepository interface {
	// Upsert creates or replaces the profile of p.UserID.
	Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error)

	// FindByUserID returns the profile of userID.
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
}
