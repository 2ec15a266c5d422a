package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// Comment is a marker comment as returned to callers: the stored row
// plus the author's display name and, for top-level comments, the
// replies nested under it.
type Comment struct {
	models.SheetMarkerComment
	AuthorName string    `json:"author_name,omitempty"`
	Replies    []Comment `json:"replies,omitempty"`
}

// CommentService manages the two-level comment threads on markers.
type CommentService struct {
	markers  repository.SheetMarkerRepository
	comments repository.SheetMarkerCommentRepository
	users    repository.UserRepository
}

func NewCommentService(
	markers repository.SheetMarkerRepository,
	comments repository.SheetMarkerCommentRepository,
	users repository.UserRepository,
) *CommentService {
	return &CommentService{
		markers:  markers,
		comments: comments,
		users:    users,
	}
}

// AddComment posts a comment on a marker, optionally as a reply.
//
// Replies are restricted to depth 2: the parent must itself be a
// top-level comment (ErrInvalidReply otherwise) and must sit on the same
// marker (ErrMarkerMismatch otherwise). The commenting user is loaded
// only to denormalize a display name into the response, not for
// authorization.
func (s *CommentService) AddComment(ctx context.Context, markerID, userID uuid.UUID, content string, parentCommentID *uuid.UUID) (*Comment, error) {
	marker, err := s.markers.FindByID(ctx, markerID)
	if err != nil {
		return nil, fmt.Errorf("find marker: %w", err)
	}
	if marker == nil {
		return nil, fmt.Errorf("marker %s: %w", markerID, models.ErrNotFound)
	}

	if parentCommentID != nil {
		parent, err := s.comments.FindByID(ctx, *parentCommentID)
		if err != nil {
			return nil, fmt.Errorf("find parent comment: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("parent comment %s: %w", *parentCommentID, models.ErrNotFound)
		}
		if parent.IsReply() {
			return nil, fmt.Errorf("parent comment %s: %w", *parentCommentID, models.ErrInvalidReply)
		}
		if parent.MarkerID != markerID {
			return nil, fmt.Errorf("parent comment %s: %w", *parentCommentID, models.ErrMarkerMismatch)
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	comment := models.NewSheetMarkerComment(markerID, userID, content, parentCommentID)
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}

	return &Comment{SheetMarkerComment: comment, AuthorName: user.DisplayName}, nil
}

// ListComments returns the marker's comments assembled into a two-level
// tree: top-level comments in order, each carrying its replies.
//
// The tree is built in memory in two passes: one to index the
// top-level nodes by id, one to attach replies. A reply whose parent is
// missing from the set (which the write-path invariants should make
// impossible) is silently dropped rather than surfaced as an error.
func (s *CommentService) ListComments(ctx context.Context, markerID uuid.UUID) ([]Comment, error) {
	marker, err := s.markers.FindByID(ctx, markerID)
	if err != nil {
		return nil, fmt.Errorf("find marker: %w", err)
	}
	if marker == nil {
		return nil, fmt.Errorf("marker %s: %w", markerID, models.ErrNotFound)
	}

	flat, err := s.comments.FindByMarkerID(ctx, markerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	names, err := s.authorNames(ctx, flat)
	if err != nil {
		return nil, err
	}
	return assembleTree(flat, names), nil
}

// authorNames resolves display names for every distinct author in the
// set. A deleted author resolves to an empty name, not an error.
func (s *CommentService) authorNames(ctx context.Context, flat []models.SheetMarkerComment) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(flat))
	for _, c := range flat {
		if _, ok := names[c.UserID]; ok {
			continue
		}
		user, err := s.users.FindByID(ctx, c.UserID)
		if err != nil {
			return nil, fmt.Errorf("find comment author: %w", err)
		}
		if user != nil {
			names[c.UserID] = user.DisplayName
		} else {
			names[c.UserID] = ""
		}
	}
	return names, nil
}

func assembleTree(flat []models.SheetMarkerComment, names map[uuid.UUID]string) []Comment {
	roots := make([]Comment, 0)
	index := make(map[uuid.UUID]int, len(flat))

	for _, c := range flat {
		if c.ParentCommentID == nil {
			index[c.ID] = len(roots)
			roots = append(roots, Comment{SheetMarkerComment: c, AuthorName: names[c.UserID], Replies: []Comment{}})
		}
	}
	for _, c := range flat {
		if c.ParentCommentID == nil {
			continue
		}
		i, ok := index[*c.ParentCommentID]
		if !ok {
			continue
		}
		roots[i].Replies = append(roots[i].Replies, Comment{SheetMarkerComment: c, AuthorName: names[c.UserID]})
	}

	return roots
}
