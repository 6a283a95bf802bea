package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"schemeagent/internal/service"
)

type MockSchemeService struct {
	mock.Mock
}

func (m *MockSchemeService) List(ctx context.Context, limit, offset int) (*service.SchemeListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SchemeListResult), args.Error(1)
}

func (m *MockSchemeService) ListForUser(ctx context.Context, userID string) ([]service.SchemeVerdict, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SchemeVerdict), args.Error(1)
}

func (m *MockSchemeService) Evaluate(ctx context.Context, userID, schemeID string) (*service.SchemeVerdict, error) {
	args := m.Called(ctx, userID, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SchemeVerdict), args.Error(1)
}

func (m *MockSchemeService) Discover(ctx context.Context, sourceURL, text string) (*service.DiscoverResult, error) {
	args := m.Called(ctx, sourceURL, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DiscoverResult), args.Error(1)
}

func (m *MockSchemeService) Kit(ctx context.Context, userID, schemeID string) (*service.ApplicationKit, error) {
	args := m.Called(ctx, userID, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApplicationKit), args.Error(1)
}
