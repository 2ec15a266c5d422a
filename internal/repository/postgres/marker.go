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

type MarkerStore struct {
	pool *pgxpool.Pool
}

func NewMarkerStore(pool *pgxpool.Pool) *MarkerStore {
	return &MarkerStore{pool: pool}
}

const markerColumns = `id, sheet_id, sheet_version_id, type, x, y, width, height, note, created_at, updated_at`

func (s *MarkerStore) Save(ctx context.Context, m models.SheetMarker) error {
	query := `
		INSERT INTO sheet_markers (` + markerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			x = EXCLUDED.x,
			y = EXCLUDED.y,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		m.ID, m.SheetID, m.SheetVersionID, string(m.Type),
		m.X, m.Y, m.Width, m.Height, m.Note, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save marker: %w", err)
	}
	return nil
}

func (s *MarkerStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SheetMarker, error) {
	query := `SELECT ` + markerColumns + ` FROM sheet_markers WHERE id = $1`

	m, err := scanMarker(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marker: %w", err)
	}
	return m, nil
}

func (s *MarkerStore) FindLiveBySheetID(ctx context.Context, sheetID uuid.UUID) ([]models.SheetMarker, error) {
	query := `
		SELECT ` + markerColumns + `
		FROM sheet_markers
		WHERE sheet_id = $1 AND sheet_version_id IS NULL
		ORDER BY created_at`

	return s.list(ctx, query, sheetID)
}

func (s *MarkerStore) FindByVersionID(ctx context.Context, versionID uuid.UUID) ([]models.SheetMarker, error) {
	query := `
		SELECT ` + markerColumns + `
		FROM sheet_markers
		WHERE sheet_version_id = $1
		ORDER BY created_at`

	return s.list(ctx, query, versionID)
}

func (s *MarkerStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sheet_markers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete marker: %w", err)
	}
	return nil
}

func (s *MarkerStore) list(ctx context.Context, query string, arg any) ([]models.SheetMarker, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	defer rows.Close()

	markers := make([]models.SheetMarker, 0)
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		markers = append(markers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markers: %w", err)
	}

	return markers, nil
}

func scanMarker(row pgx.Row) (*models.SheetMarker, error) {
	var m models.SheetMarker
	var typ string
	err := row.Scan(
		&m.ID, &m.SheetID, &m.SheetVersionID, &typ,
		&m.X, &m.Y, &m.Width, &m.Height, &m.Note, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t, err := models.MarkerTypeOf(typ)
	if err != nil {
		return nil, err
	}
	m.Type = t
	return &m, nil
}
