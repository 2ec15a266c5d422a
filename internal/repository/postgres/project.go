package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/sheetwork/internal/models"
)

type ProjectStore struct {
	pool *pgxpool.Pool
}

func NewProjectStore(pool *pgxpool.Pool) *ProjectStore {
	return &ProjectStore{pool: pool}
}

// company_ids / client_company_ids are uuid[] columns. pgx maps them to
// []uuid.UUID directly, which keeps the owning-companies list inside the
// project row the way the domain model holds it.
func (s *ProjectStore) Save(ctx context.Context, p models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, visibility, company_ids, client_company_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			visibility = EXCLUDED.visibility,
			company_ids = EXCLUDED.company_ids,
			client_company_ids = EXCLUDED.client_company_ids,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, string(p.Visibility),
		p.CompanyIDs, p.ClientCompanyIDs, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, name, description, visibility, company_ids, client_company_ids, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var p models.Project
	var visibility string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &visibility,
		&p.CompanyIDs, &p.ClientCompanyIDs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	v, err := models.VisibilityOf(visibility)
	if err != nil {
		return nil, err
	}
	p.Visibility = v
	if p.CompanyIDs == nil {
		p.CompanyIDs = []uuid.UUID{}
	}
	if p.ClientCompanyIDs == nil {
		p.ClientCompanyIDs = []uuid.UUID{}
	}
	return &p, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
