package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSheetVersionSnapshotsCurrentFields(t *testing.T) {
	sheet := NewSheet(uuid.New(), "floor plan", "west wing", "{...}", "https://cdn.example.com/plan.png")

	v := NewSheetVersion(sheet, sheet.ImageURL)

	assert.Equal(t, sheet.ID, v.SheetID)
	assert.Equal(t, sheet.Name, v.Name)
	assert.Equal(t, sheet.Description, v.Description)
	assert.Equal(t, sheet.Content, v.Content)
	assert.Equal(t, sheet.ImageURL, v.ImageURL)
	assert.NotEqual(t, sheet.ID, v.ID)

	// VersionName is the creation instant, down to the second.
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", v.VersionName, time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, v.CreatedAt, parsed, time.Second)
}

func TestNewSheetVersionKeepsBackedUpImageURL(t *testing.T) {
	sheet := NewSheet(uuid.New(), "plan", "", "", "/uploads/raw.png")

	v := NewSheetVersion(sheet, "/data/images/versions/abc.png")

	assert.Equal(t, "/data/images/versions/abc.png", v.ImageURL)
	assert.Equal(t, "/uploads/raw.png", sheet.ImageURL)
}

func TestRestoredOverwritesContentKeepsIdentity(t *testing.T) {
	sheet := NewSheet(uuid.New(), "v1 name", "v1 desc", "v1 content", "v1.png")
	v := NewSheetVersion(sheet, sheet.ImageURL)

	edited := sheet.WithContent("v2 name", "v2 desc", "v2 content", "v2.png")
	restored := edited.Restored(v)

	assert.Equal(t, sheet.ID, restored.ID)
	assert.Equal(t, sheet.ProjectID, restored.ProjectID)
	assert.Equal(t, sheet.CreatedAt, restored.CreatedAt)

	assert.Equal(t, "v1 name", restored.Name)
	assert.Equal(t, "v1 desc", restored.Description)
	assert.Equal(t, "v1 content", restored.Content)
	assert.Equal(t, "v1.png", restored.ImageURL)
	assert.False(t, restored.UpdatedAt.Before(edited.UpdatedAt))
}
