package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalImageStore keeps sheet images on the local filesystem and backs
// them up into a version-specific subdirectory.
//
// BackupImage follows the versioning contract:
//   - "" in → "" out; nothing to carry over.
//   - http/https URLs are external; they pass through unchanged.
//   - a local path that no longer exists → "" out, no error. The
//     version is simply created without an image.
//   - otherwise the file is copied under <root>/versions/ with a fresh
//     name and the new path is returned.
type LocalImageStore struct {
	root   string
	logger *zap.Logger
}

func NewLocalImageStore(root string, logger *zap.Logger) *LocalImageStore {
	return &LocalImageStore{root: root, logger: logger}
}

func (s *LocalImageStore) BackupImage(ctx context.Context, sourceURL string) (string, error) {
	if sourceURL == "" {
		return "", nil
	}
	if isExternalURL(sourceURL) {
		return sourceURL, nil
	}

	src, err := os.Open(sourceURL)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("sheet image missing, version will have no image",
				zap.String("path", sourceURL))
			return "", nil
		}
		return "", fmt.Errorf("open source image: %w", err)
	}
	defer src.Close()

	destDir := filepath.Join(s.root, "versions")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	destPath := filepath.Join(destDir, uuid.NewString()+filepath.Ext(sourceURL))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("copy image: %w", err)
	}

	return destPath, nil
}

func isExternalURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
