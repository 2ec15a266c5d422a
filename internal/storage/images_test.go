package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackupImageEmptySource(t *testing.T) {
	store := NewLocalImageStore(t.TempDir(), zap.NewNop())

	got, err := store.BackupImage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestBackupImageExternalURLPassesThrough(t *testing.T) {
	store := NewLocalImageStore(t.TempDir(), zap.NewNop())

	for _, url := range []string{
		"http://cdn.example.com/plan.png",
		"https://cdn.example.com/plan.png",
	} {
		got, err := store.BackupImage(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, url, got)
	}
}

func TestBackupImageMissingFile(t *testing.T) {
	root := t.TempDir()
	store := NewLocalImageStore(root, zap.NewNop())

	got, err := store.BackupImage(context.Background(), filepath.Join(root, "gone.png"))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestBackupImageCopiesLocalFile(t *testing.T) {
	root := t.TempDir()
	store := NewLocalImageStore(root, zap.NewNop())

	src := filepath.Join(root, "plan.png")
	require.NoError(t, os.WriteFile(src, []byte("image bytes"), 0o644))

	got, err := store.BackupImage(context.Background(), src)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.NotEqual(t, src, got)
	assert.True(t, strings.HasPrefix(got, filepath.Join(root, "versions")))
	assert.Equal(t, ".png", filepath.Ext(got))

	copied, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), copied)

	// A second backup of the same source lands at a distinct path.
	again, err := store.BackupImage(context.Background(), src)
	require.NoError(t, err)
	assert.NotEqual(t, got, again)
}
