package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/sheetwork/internal/models"
)

type ProjectMemberStore struct {
	pool *pgxpool.Pool
}

func NewProjectMemberStore(pool *pgxpool.Pool) *ProjectMemberStore {
	return &ProjectMemberStore{pool: pool}
}

func (s *ProjectMemberStore) Add(ctx context.Context, projectID, userID uuid.UUID) error {
	// ON CONFLICT DO NOTHING: adding an existing member is a no-op, so
	// the endpoint stays idempotent.
	query := `
		INSERT INTO project_members (project_id, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (project_id, user_id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("add project member: %w", err)
	}
	return nil
}

func (s *ProjectMemberStore) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	query := `
		DELETE FROM project_members
		WHERE project_id = $1 AND user_id = $2`

	_, err := s.pool.Exec(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}
	return nil
}

// IsMember is the membership oracle behind every access check. EXISTS
// stops at the first matching row.
func (s *ProjectMemberStore) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM project_members
			WHERE project_id = $1 AND user_id = $2
		)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, projectID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check project membership: %w", err)
	}
	return exists, nil
}

func (s *ProjectMemberStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error) {
	query := `
		SELECT project_id, user_id, created_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	members := make([]models.ProjectMember, 0)
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project members: %w", err)
	}

	return members, nil
}
