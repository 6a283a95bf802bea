// Package service holds the use cases behind the HTTP API. It wires
// persistence and object storage to the agents and the rule engine.
package service

import (
	"context"
	"errors"

	"schemeagent/internal/model"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("not found")
	ErrReaderNil       = errors.New("reader is nil")
	ErrProfileRequired = errors.New("complete your profile first")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrInvalidInput    = errors.New("invalid input")
)

// Extractor pulls structured fields out of document text.
type Extractor interface {
	Extract(ctx context.Context, text, docType string) model.Extraction
}

// Verifier judges an extraction against the profile.
type Verifier interface {
	Verify(ctx context.Context, p *model.Profile, ext model.Extraction, docType string) (model.DocumentStatus, string)
}

// EligibilityEvaluator decides eligibility for one scheme.
type EligibilityEvaluator interface {
	Evaluate(ctx context.Context, p *model.Profile, docs []model.Document, s model.Scheme) model.Verdict
}

// SchemeDiscoverer finds schemes in page text.
type SchemeDiscoverer interface {
	Discover(ctx context.Context, sourceURL, text string) []model.Scheme
}

// LetterDrafter writes an application cover letter.
type LetterDrafter interface {
	Draft(ctx context.Context, p *model.Profile, s model.Scheme) string
}
