package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"schemeagent/internal/model"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, text, docType string) model.Extraction {
	args := m.Called(ctx, text, docType)
	return args.Get(0).(model.Extraction)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, p *model.Profile, ext model.Extraction, docType string) (model.DocumentStatus, string) {
	args := m.Called(ctx, p, ext, docType)
	return args.Get(0).(model.DocumentStatus), args.String(1)
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(ctx context.Context, p *model.Profile, docs []model.Document, s model.Scheme) model.Verdict {
	args := m.Called(ctx, p, docs, s)
	return args.Get(0).(model.Verdict)
}

type mockDiscoverer struct {
	mock.Mock
}

func (m *mockDiscoverer) Discover(ctx context.Context, sourceURL, text string) []model.Scheme {
	args := m.Called(ctx, sourceURL, text)
	return args.Get(0).([]model.Scheme)
}

type mockDrafter struct {
	mock.Mock
}

func (m *mockDrafter) Draft(ctx context.Context, p *model.Profile, s model.Scheme) string {
	args := m.Called(ctx, p, s)
	return args.String(0)
}
