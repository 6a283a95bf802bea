package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
	"schemeagent/internal/rules"
)

// ReasonProfileMissing is the verdict reason for users without a profile.
const ReasonProfileMissing = "Profile missing"

// listAllLimit bounds the catalogue evaluated for one user.
const listAllLimit = 1000

// SchemeListResult wraps a page of schemes with pagination metadata.
type SchemeListResult struct {
	Items  []model.Scheme `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// SchemeVerdict is a scheme with the user's eligibility verdict.
type SchemeVerdict struct {
	Scheme model.Scheme `json:"scheme"`
	model.Verdict
}

// DiscoverResult reports what a discovery run found and stored.
type DiscoverResult struct {
	Found   int            `json:"found"`
	Created []model.Scheme `json:"created"`
	Skipped []string       `json:"skipped"`
}

// ApplicationKit bundles what a user needs to apply for a scheme.
type ApplicationKit struct {
	Scheme      model.Scheme          `json:"scheme"`
	CoverLetter string                `json:"cover_letter"`
	Checklist   []rules.ChecklistItem `json:"checklist"`
	NextSteps   []string              `json:"next_steps"`
}

// SchemeService defines the scheme catalogue and eligibility use cases.
type SchemeService interface {
	// List returns a page of the catalogue.
	List(ctx context.Context, limit, offset int) (*SchemeListResult, error)

	// ListForUser evaluates every scheme for userID, in catalogue order.
	ListForUser(ctx context.Context, userID string) ([]SchemeVerdict, error)

	// Evaluate returns the verdict of one scheme for userID.
	Evaluate(ctx context.Context, userID, schemeID string) (*SchemeVerdict, error)

	// Discover extracts schemes from page text and stores the new ones.
	Discover(ctx context.Context, sourceURL, text string) (*DiscoverResult, error)

	// Kit prepares the application kit of a scheme for userID.
	Kit(ctx context.Context, userID, schemeID string) (*ApplicationKit, error)
}

type schemeService struct {
	schemes    repository.SchemeRepository
	profiles   repository.ProfileRepository
	documents  repository.DocumentRepository
	evaluator  EligibilityEvaluator
	discoverer SchemeDiscoverer
	drafter    LetterDrafter
}

// NewSchemeService constructs a new SchemeService.
func NewSchemeService(
	schemes repository.SchemeRepository,
	profiles repository.ProfileRepository,
	documents repository.DocumentRepository,
	evaluator EligibilityEvaluator,
	discoverer SchemeDiscoverer,
	drafter LetterDrafter,
) SchemeService {
	return &schemeService{
		schemes:    schemes,
		profiles:   profiles,
		documents:  documents,
		evaluator:  evaluator,
		discoverer: discoverer,
		drafter:    drafter,
	}
}

func (s *schemeService) List(ctx context.Context, limit, offset int) (*SchemeListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.schemes.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SchemeListResult{
		Items:  page.Items,
		Total:  page.Total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// userContext loads the profile and documents of userID. A missing profile yields a nil profile.
func (s *schemeService) userContext(ctx context.Context, userID string) (*model.Profile, []model.Document, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load documents: %w", err)
	}
	return p, docs, nil
}

func (s *schemeService) verdict(ctx context.Context, p *model.Profile, docs []model.Document, sc model.Scheme) SchemeVerdict {
	if p == nil {
		return SchemeVerdict{Scheme: sc, Verdict: model.NewVerdict(false, ReasonProfileMissing, nil)}
	}
	return SchemeVerdict{Scheme: sc, Verdict: s.evaluator.Evaluate(ctx, p, docs, sc)}
}

func (s *schemeService) ListForUser(ctx context.Context, userID string) ([]SchemeVerdict, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	page, err := s.schemes.List(ctx, repository.PageQuery{Limit: listAllLimit})
	if err != nil {
		return nil, err
	}
	p, docs, err := s.userContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]SchemeVerdict, 0, len(page.Items))
	for _, sc := range page.Items {
		out = append(out, s.verdict(ctx, p, docs, sc))
	}
	return out, nil
}

func (s *schemeService) findScheme(ctx context.Context, id string) (*model.Scheme, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	sc, err := s.schemes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sc, nil
}

func (s *schemeService) Evaluate(ctx context.Context, userID, schemeID string) (*SchemeVerdict, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	sc, err := s.findScheme(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	p, docs, err := s.userContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := s.verdict(ctx, p, docs, *sc)
	return &v, nil
}

func (s *schemeService) Discover(ctx context.Context, sourceURL, text string) (*DiscoverResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	found := s.discoverer.Discover(ctx, sourceURL, text)
	res := &DiscoverResult{Found: len(found), Created: []model.Scheme{}, Skipped: []string{}}
	for i := range found {
		stored, err := s.schemes.Create(ctx, &found[i])
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				res.Skipped = append(res.Skipped, found[i].Name)
				continue
			}
			return nil, fmt.Errorf("save scheme %q: %w", found[i].Name, err)
		}
		res.Created = append(res.Created, *stored)
	}
	return res, nil
}

func (s *schemeService) Kit(ctx context.Context, userID, schemeID string) (*ApplicationKit, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	sc, err := s.findScheme(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	p, err := loadProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	return &ApplicationKit{
		Scheme:      *sc,
		CoverLetter: s.drafter.Draft(ctx, p, *sc),
		Checklist:   rules.Checklist(sc.RequiredDocuments, docs),
		NextSteps:   nextSteps(*sc),
	}, nil
}

func nextSteps(sc model.Scheme) []string {
	portal := sc.PortalURL
	if portal == "" {
		portal = "the official scheme portal"
	}
	return []string{
		"Review the cover letter and fill in any missing details.",
		"Gather every document marked as not satisfied in the checklist.",
		fmt.Sprintf("Visit %s to submit the application.", portal),
		"Upload the documents and attach the cover letter.",
		"Keep the acknowledgement number for tracking.",
	}
}
