package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
)

type MockSchemeRepository struct {
	mock.Mock
}

func (m *MockSchemeRepository) Create(ctx context.Context, s *model.Scheme) (*model.Scheme, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scheme), args.Error(1)
}

func (m *MockSchemeRepository) FindByID(ctx context.Context, id string) (*model.Scheme, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scheme), args.Error(1)
}

func (m *MockSchemeRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Scheme], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Scheme]), args.Error(1)
}
