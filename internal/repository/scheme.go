package repository

import (
	"context"

	"schemeagent/internal/model"
)

// SchemeRepository stores the scheme catalogue. Scheme names are unique.
type SchemeRepository interface {
	// Create inserts a scheme. It returns ErrDuplicate when the name is taken.
	Create(ctx context.Context, s *model.Scheme) (*model.Scheme, error)

	FindByID(ctx context.Context, id string) (*model.Scheme, error)

	// List returns a page of schemes ordered by name and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Scheme], error)
}
