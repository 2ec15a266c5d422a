package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MarkerType is the shape of a marker: a numbered point or a square
// region. Squares carry width/height; points leave them nil.
type MarkerType string

const (
	MarkerNumber MarkerType = "number"
	MarkerSquare MarkerType = "square"
)

// MarkerTypeOf validates s against the closed enumeration.
func MarkerTypeOf(s string) (MarkerType, error) {
	switch MarkerType(s) {
	case MarkerNumber, MarkerSquare:
		return MarkerType(s), nil
	default:
		return "", fmt.Errorf("marker type %q: %w", s, ErrInvalidValue)
	}
}

// SheetMarker is a positioned annotation. It belongs to exactly one of
// {the live sheet, one historical version}: SheetVersionID == nil means
// live, non-nil means frozen onto that version.
type SheetMarker struct {
	ID             uuid.UUID  `json:"id"`
	SheetID        uuid.UUID  `json:"sheet_id"`
	SheetVersionID *uuid.UUID `json:"sheet_version_id,omitempty"`
	Type           MarkerType `json:"type"`
	X              float64    `json:"x"`
	Y              float64    `json:"y"`
	Width          *float64   `json:"width,omitempty"`
	Height         *float64   `json:"height,omitempty"`
	Note           *string    `json:"note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewSheetMarker creates a live marker (no version attached).
func NewSheetMarker(sheetID uuid.UUID, typ MarkerType, x, y float64, width, height *float64, note *string) SheetMarker {
	now := time.Now()
	return SheetMarker{
		ID:        uuid.New(),
		SheetID:   sheetID,
		Type:      typ,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CopiedToVersion duplicates the marker onto a version: same shape,
// position and note, but a fresh id and timestamps, and SheetVersionID
// pointing at the snapshot. The original is left alone: versioning
// copies markers, it never moves them.
func (m SheetMarker) CopiedToVersion(versionID uuid.UUID) SheetMarker {
	now := time.Now()
	vid := versionID
	m.ID = uuid.New()
	m.SheetVersionID = &vid
	m.CreatedAt = now
	m.UpdatedAt = now
	return m
}

// WithPosition moves the marker and refreshes UpdatedAt.
func (m SheetMarker) WithPosition(x, y float64, width, height *float64) SheetMarker {
	m.X = x
	m.Y = y
	m.Width = width
	m.Height = height
	m.UpdatedAt = time.Now()
	return m
}

func (m SheetMarker) WithNote(note *string) SheetMarker {
	m.Note = note
	m.UpdatedAt = time.Now()
	return m
}

// IsLive reports whether the marker belongs to the current sheet rather
// than a frozen version.
func (m SheetMarker) IsLive() bool { return m.SheetVersionID == nil }
