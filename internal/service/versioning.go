package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// ImageBackup duplicates a sheet image to a version-specific location.
//
// Contract:
//   - empty source → "", nil (no image to carry over)
//   - http/https URL → the same URL, unchanged
//   - missing local file → "", nil (not an error; the version just has
//     no image)
//   - anything else → the new reference
type ImageBackup interface {
	BackupImage(ctx context.Context, sourceURL string) (string, error)
}

// VersioningService snapshots sheets into immutable versions and
// restores them.
type VersioningService struct {
	sheets   repository.SheetRepository
	versions repository.SheetVersionRepository
	markers  repository.SheetMarkerRepository
	images   ImageBackup
	logger   *zap.Logger
}

func NewVersioningService(
	sheets repository.SheetRepository,
	versions repository.SheetVersionRepository,
	markers repository.SheetMarkerRepository,
	images ImageBackup,
	logger *zap.Logger,
) *VersioningService {
	return &VersioningService{
		sheets:   sheets,
		versions: versions,
		markers:  markers,
		images:   images,
		logger:   logger,
	}
}

// CreateVersion snapshots the sheet's current content into a new
// immutable version and duplicates every live marker onto it. The live
// markers are copied, never moved: later edits to them do not leak into
// the frozen layout.
//
// Markers are copied one save at a time with no transaction around the
// loop. A failure mid-loop leaves the version with a partial marker set;
// the error carries the version id so callers can detect and retry the
// copy out of band.
func (s *VersioningService) CreateVersion(ctx context.Context, sheetID uuid.UUID) (*models.SheetVersion, error) {
	sheet, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("find sheet: %w", err)
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %s: %w", sheetID, models.ErrNotFound)
	}

	imageURL, err := s.images.BackupImage(ctx, sheet.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("backup sheet image: %w", err)
	}

	version := models.NewSheetVersion(*sheet, imageURL)
	if err := s.versions.Save(ctx, version); err != nil {
		return nil, fmt.Errorf("save version: %w", err)
	}

	live, err := s.markers.FindLiveBySheetID(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("list live markers: %w", err)
	}
	for i, m := range live {
		dup := m.CopiedToVersion(version.ID)
		if err := s.markers.Save(ctx, dup); err != nil {
			return nil, fmt.Errorf("copy marker %d of %d to version %s: %w", i+1, len(live), version.ID, err)
		}
	}

	s.logger.Info("sheet version created",
		zap.String("sheet_id", sheetID.String()),
		zap.String("version_id", version.ID.String()),
		zap.String("version_name", version.VersionName),
		zap.Int("markers_copied", len(live)),
	)
	return &version, nil
}

// RestoreVersion overwrites the sheet's content fields with a version's
// values. The version must belong to the sheet. Markers are left alone:
// restoring content does not restore the marker layout.
func (s *VersioningService) RestoreVersion(ctx context.Context, sheetID, versionID uuid.UUID) (*models.Sheet, error) {
	version, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("find version: %w", err)
	}
	if version == nil {
		return nil, fmt.Errorf("version %s: %w", versionID, models.ErrNotFound)
	}

	sheet, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("find sheet: %w", err)
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %s: %w", sheetID, models.ErrNotFound)
	}

	if version.SheetID != sheet.ID {
		return nil, fmt.Errorf("version %s, sheet %s: %w", versionID, sheetID, models.ErrMismatchedOwnership)
	}

	restored := sheet.Restored(*version)
	if err := s.sheets.Save(ctx, restored); err != nil {
		return nil, fmt.Errorf("save sheet: %w", err)
	}

	s.logger.Info("sheet restored from version",
		zap.String("sheet_id", sheetID.String()),
		zap.String("version_id", versionID.String()),
	)
	return &restored, nil
}

// ListVersions returns a sheet's versions, newest first.
func (s *VersioningService) ListVersions(ctx context.Context, sheetID uuid.UUID) ([]models.SheetVersion, error) {
	sheet, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("find sheet: %w", err)
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %s: %w", sheetID, models.ErrNotFound)
	}
	versions, err := s.versions.FindBySheetID(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}
