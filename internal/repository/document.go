package repository

import (
	"context"

	"schemeagent/internal/model"
)

// DocumentRepository defines data access for user documents using SQL queries only.
// Persistence only; no business logic.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document owned by userID.
	FindByID(ctx context.Context, userID, id string) (*model.Document, error)

	// ListByUser returns every document of userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Document, error)

	// Update replaces the mutable fields (name, status, validation message, extraction).
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes a document. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, userID, id string) error
}
