package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
)

// ProfileService manages the single profile of each user.
type ProfileService interface {
	// Get returns the profile of userID or ErrNotFound.
	Get(ctx context.Context, userID string) (*model.Profile, error)

	// Upsert validates and stores p as the profile of userID.
	Upsert(ctx context.Context, userID string, p *model.Profile) (*model.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, userID string, p *model.Profile) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	if p == nil {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidProfile)
	}

	in := *p
	in.UserID = userID
	in.FullName = strings.TrimSpace(in.FullName)
	in.UserType = model.UserType(strings.ToLower(strings.TrimSpace(string(in.UserType))))
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrInvalidProfile)
	}
	if !in.UserType.IsValid() {
		return nil, fmt.Errorf("%w: unknown user_type %q", ErrInvalidProfile, p.UserType)
	}
	if in.Income != nil && *in.Income < 0 {
		return nil, fmt.Errorf("%w: income must not be negative", ErrInvalidProfile)
	}
	in.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Upsert(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return stored, nil
}

// loadProfile returns the profile of userID, mapping a missing row to ErrProfileRequired.
func loadProfile(ctx context.Context, repo repository.ProfileRepository, userID string) (*model.Profile, error) {
	p, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
