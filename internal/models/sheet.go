package models

import (
	"time"

	"github.com/google/uuid"
)

// versionNameLayout renders local wall-clock time as a human-readable
// version label, e.g. "2026-08-28 14:03:59".
const versionNameLayout = "2006-01-02 15:04:05"

// Sheet is the mutable "current" document inside a project. Historical
// states live in SheetVersion snapshots.
type Sheet struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSheet(projectID uuid.UUID, name, description, content, imageURL string) Sheet {
	now := time.Now()
	return Sheet{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Content:     content,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s Sheet) WithContent(name, description, content, imageURL string) Sheet {
	s.Name = name
	s.Description = description
	s.Content = content
	s.ImageURL = imageURL
	s.UpdatedAt = time.Now()
	return s
}

// Restored overwrites the sheet's content fields with a version's
// values. Identity (ID, ProjectID, CreatedAt) is preserved; UpdatedAt is
// refreshed. Markers are NOT touched: restoring content does not
// restore the marker layout.
func (s Sheet) Restored(v SheetVersion) Sheet {
	s.Name = v.Name
	s.Description = v.Description
	s.Content = v.Content
	s.ImageURL = v.ImageURL
	s.UpdatedAt = time.Now()
	return s
}

// SheetVersion is an immutable snapshot of a sheet. Never updated after
// creation; the markers frozen with it carry its id in SheetVersionID.
type SheetVersion struct {
	ID          uuid.UUID `json:"id"`
	SheetID     uuid.UUID `json:"sheet_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	VersionName string    `json:"version_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSheetVersion snapshots the sheet's current fields. imageURL is
// passed separately because the caller may have backed the image up to a
// version-specific location first (or dropped it, if the source file
// went missing).
func NewSheetVersion(s Sheet, imageURL string) SheetVersion {
	now := time.Now()
	return SheetVersion{
		ID:          uuid.New(),
		SheetID:     s.ID,
		Name:        s.Name,
		Description: s.Description,
		Content:     s.Content,
		ImageURL:    imageURL,
		VersionName: now.Format(versionNameLayout),
		CreatedAt:   now,
	}
}
