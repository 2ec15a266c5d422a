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

type SheetStore struct {
	pool *pgxpool.Pool
}

func NewSheetStore(pool *pgxpool.Pool) *SheetStore {
	return &SheetStore{pool: pool}
}

func (s *SheetStore) Save(ctx context.Context, sh models.Sheet) error {
	query := `
		INSERT INTO sheets (id, project_id, name, description, content, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			content = EXCLUDED.content,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		sh.ID, sh.ProjectID, sh.Name, sh.Description, sh.Content, sh.ImageURL, sh.CreatedAt, sh.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save sheet: %w", err)
	}
	return nil
}

func (s *SheetStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Sheet, error) {
	query := `
		SELECT id, project_id, name, description, content, image_url, created_at, updated_at
		FROM sheets
		WHERE id = $1`

	var sh models.Sheet
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&sh.ID, &sh.ProjectID, &sh.Name, &sh.Description, &sh.Content, &sh.ImageURL, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sheet: %w", err)
	}
	return &sh, nil
}

func (s *SheetStore) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.Sheet, error) {
	query := `
		SELECT id, project_id, name, description, content, image_url, created_at, updated_at
		FROM sheets
		WHERE project_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	sheets := make([]models.Sheet, 0)
	for rows.Next() {
		var sh models.Sheet
		if err := rows.Scan(
			&sh.ID, &sh.ProjectID, &sh.Name, &sh.Description, &sh.Content, &sh.ImageURL, &sh.CreatedAt, &sh.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		sheets = append(sheets, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheets: %w", err)
	}

	return sheets, nil
}

func (s *SheetStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}
	return nil
}
