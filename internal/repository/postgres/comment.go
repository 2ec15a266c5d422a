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

type CommentStore struct {
	pool *pgxpool.Pool
}

func NewCommentStore(pool *pgxpool.Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

func (s *CommentStore) Save(ctx context.Context, c models.SheetMarkerComment) error {
	query := `
		INSERT INTO sheet_marker_comments (id, marker_id, user_id, parent_comment_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		c.ID, c.MarkerID, c.UserID, c.ParentCommentID, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save comment: %w", err)
	}
	return nil
}

func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SheetMarkerComment, error) {
	query := `
		SELECT id, marker_id, user_id, parent_comment_id, content, created_at, updated_at
		FROM sheet_marker_comments
		WHERE id = $1`

	var c models.SheetMarkerComment
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.MarkerID, &c.UserID, &c.ParentCommentID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) FindByMarkerID(ctx context.Context, markerID uuid.UUID) ([]models.SheetMarkerComment, error) {
	query := `
		SELECT id, marker_id, user_id, parent_comment_id, content, created_at, updated_at
		FROM sheet_marker_comments
		WHERE marker_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, markerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.SheetMarkerComment, 0)
	for rows.Next() {
		var c models.SheetMarkerComment
		if err := rows.Scan(
			&c.ID, &c.MarkerID, &c.UserID, &c.ParentCommentID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sheet_marker_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
