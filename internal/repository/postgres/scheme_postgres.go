package postgres

import (
	"context"
	"database/sql"
	"errors"

	"schemeagent/internal/model"
	"schemeagent/internal/repository"
)

// SchemePostgres is a PostgreSQL implementation of repository.SchemeRepository.
// Rules and required documents are stored as JSONB.
type SchemePostgres struct {
	db *sql.DB
}

// NewSchemePostgres creates a new SchemePostgres repository.
func NewSchemePostgres(db *sql.DB) *SchemePostgres {
	return &SchemePostgres{db: db}
}

var _ repository.SchemeRepository = (*SchemePostgres)(nil)

const schemeColumns = `id, name, description, target_group, benefits, portal_url, rules, required_documents, created_at`

func scanScheme(rs rowScanner) (*model.Scheme, error) {
	var (
		s        model.Scheme
		rules    []byte
		required []byte
	)
	if err := rs.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.TargetGroup,
		&s.Benefits,
		&s.PortalURL,
		&rules,
		&required,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := fromJSONB(rules, &s.Rules); err != nil {
		return nil, err
	}
	var docs model.StringList
	if err := fromJSONB(required, &docs); err != nil {
		return nil, err
	}
	s.RequiredDocuments = []string(docs)
	if s.RequiredDocuments == nil {
		s.RequiredDocuments = []string{}
	}
	return &s, nil
}

// Create inserts a scheme unless one with the same name exists.
func (r *SchemePostgres) Create(ctx context.Context, s *model.Scheme) (*model.Scheme, error) {
	rules, err := toJSONB(s.Rules)
	if err != nil {
		return nil, err
	}
	required := s.RequiredDocuments
	if required == nil {
		required = []string{}
	}
	docs, err := toJSONB(required)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO schemes (` + schemeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING
		RETURNING ` + schemeColumns
	out, err := scanScheme(r.db.QueryRowContext(ctx, q,
		s.ID,
		s.Name,
		s.Description,
		s.TargetGroup,
		s.Benefits,
		s.PortalURL,
		rules,
		docs,
		s.CreatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrDuplicate
	}
	return out, err
}

// FindByID fetches a single scheme.
func (r *SchemePostgres) FindByID(ctx context.Context, id string) (*model.Scheme, error) {
	const q = `
		SELECT ` + schemeColumns + `
		FROM schemes
		WHERE id = $1
	`
	return scanScheme(r.db.QueryRowContext(ctx, q, id))
}

// List returns schemes using LIMIT/OFFSET pagination and a total count.
func (r *SchemePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Scheme], error) {
	const qCount = `SELECT COUNT(*) FROM schemes`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + schemeColumns + `
		FROM schemes
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Scheme, 0)
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Scheme]{
		Items: items,
		Total: total,
	}, nil
}
