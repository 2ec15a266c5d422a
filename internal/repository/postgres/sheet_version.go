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

type SheetVersionStore struct {
	pool *pgxpool.Pool
}

func NewSheetVersionStore(pool *pgxpool.Pool) *SheetVersionStore {
	return &SheetVersionStore{pool: pool}
}

// Save only ever inserts. Versions are immutable, so a conflicting id is
// a repeat of the same snapshot and safely ignored.
func (s *SheetVersionStore) Save(ctx context.Context, v models.SheetVersion) error {
	query := `
		INSERT INTO sheet_versions (id, sheet_id, name, description, content, image_url, version_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query,
		v.ID, v.SheetID, v.Name, v.Description, v.Content, v.ImageURL, v.VersionName, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("save sheet version: %w", err)
	}
	return nil
}

func (s *SheetVersionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SheetVersion, error) {
	query := `
		SELECT id, sheet_id, name, description, content, image_url, version_name, created_at
		FROM sheet_versions
		WHERE id = $1`

	var v models.SheetVersion
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.SheetID, &v.Name, &v.Description, &v.Content, &v.ImageURL, &v.VersionName, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sheet version: %w", err)
	}
	return &v, nil
}

func (s *SheetVersionStore) FindBySheetID(ctx context.Context, sheetID uuid.UUID) ([]models.SheetVersion, error) {
	query := `
		SELECT id, sheet_id, name, description, content, image_url, version_name, created_at
		FROM sheet_versions
		WHERE sheet_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, sheetID)
	if err != nil {
		return nil, fmt.Errorf("list sheet versions: %w", err)
	}
	defer rows.Close()

	versions := make([]models.SheetVersion, 0)
	for rows.Next() {
		var v models.SheetVersion
		if err := rows.Scan(
			&v.ID, &v.SheetID, &v.Name, &v.Description, &v.Content, &v.ImageURL, &v.VersionName, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sheet version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheet versions: %w", err)
	}

	return versions, nil
}
