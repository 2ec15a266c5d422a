package models

import (
	"time"

	"github.com/google/uuid"
)

// SheetMarkerComment is one comment on a marker. Threads are at most two
// levels deep: a top-level comment has ParentCommentID == nil, a reply
// points at a top-level comment on the same marker. The comment service
// enforces both rules before anything is persisted.
type SheetMarkerComment struct {
	ID              uuid.UUID  `json:"id"`
	MarkerID        uuid.UUID  `json:"marker_id"`
	UserID          uuid.UUID  `json:"user_id"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Content         string     `json:"content"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewSheetMarkerComment(markerID, userID uuid.UUID, content string, parentCommentID *uuid.UUID) SheetMarkerComment {
	now := time.Now()
	return SheetMarkerComment{
		ID:              uuid.New(),
		MarkerID:        markerID,
		UserID:          userID,
		ParentCommentID: parentCommentID,
		Content:         content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (c SheetMarkerComment) IsReply() bool { return c.ParentCommentID != nil }

func (c SheetMarkerComment) WithContent(content string) SheetMarkerComment {
	c.Content = content
	c.UpdatedAt = time.Now()
	return c
}
