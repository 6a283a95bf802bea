package postgres

import (
	"context"
	"database/sql"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, user_id, name, storage_path, content_type, size, status, validation_message, extracted_data, created_at, updated_at`

func scanDocument(rs rowScanner) (*model.Document, error) {
	var (
		d    model.Document
		data []byte
	)
	if err := rs.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.StoragePath,
		&d.ContentType,
		&d.Size,
		&d.Status,
		&d.ValidationMessage,
		&data,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := fromJSONB(data, &d.ExtractedData); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	data, err := toJSONB(doc.ExtractedData)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.Name,
		doc.StoragePath,
		doc.ContentType,
		doc.Size,
		string(doc.Status),
		doc.ValidationMessage,
		data,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document of a user.
func (r *DocumentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND user_id = $2
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByUser returns all documents of a user, newest first.
func (r *DocumentPostgres) ListByUser(ctx context.Context, userID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes the mutable fields of doc and returns the stored record.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	data, err := toJSONB(doc.ExtractedData)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE documents
		SET name = $3, status = $4, validation_message = $5, extracted_data = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.Name,
		string(doc.Status),
		doc.ValidationMessage,
		data,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, id, userID)
	return err
}
