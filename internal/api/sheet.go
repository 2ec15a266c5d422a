package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/realtime"
	"github.com/atelierhq/sheetwork/internal/repository"
	"github.com/atelierhq/sheetwork/internal/service"
)

// SheetHandler handles sheets and their version history. Authorization
// always goes through the sheet's owning project: reads need CanAccess,
// writes (including versioning) need CanEdit.
type SheetHandler struct {
	sheets     repository.SheetRepository
	versioning *service.VersioningService
	guard      *Guard
	hub        *realtime.Hub
	logger     *zap.Logger
}

func NewSheetHandler(
	sheets repository.SheetRepository,
	versioning *service.VersioningService,
	guard *Guard,
	hub *realtime.Hub,
	logger *zap.Logger,
) *SheetHandler {
	return &SheetHandler{
		sheets:     sheets,
		versioning: versioning,
		guard:      guard,
		hub:        hub,
		logger:     logger,
	}
}

type createSheetRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
}

// Create handles POST /v1/projects/:id/sheets
func (h *SheetHandler) Create(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	_, allowed, err := h.guard.ProjectForWrite(ctx, projectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	sheet := models.NewSheet(projectID, req.Name, req.Description, req.Content, req.ImageURL)
	if err := h.sheets.Save(ctx, sheet); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, sheet)
}

// Get handles GET /v1/sheets/:id
func (h *SheetHandler) Get(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	sheet, ok := h.sheetForRead(c, sheetID, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// ListByProject handles GET /v1/projects/:id/sheets
func (h *SheetHandler) ListByProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	_, allowed, err := h.guard.ProjectForRead(ctx, projectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	sheets, err := h.sheets.FindByProjectID(ctx, projectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, sheets)
}

type updateSheetRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
}

// Update handles PATCH /v1/sheets/:id
func (h *SheetHandler) Update(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	sheet, ok := h.sheetForWrite(c, sheetID, userID)
	if !ok {
		return
	}

	updated := sheet.WithContent(req.Name, req.Description, req.Content, req.ImageURL)
	if err := h.sheets.Save(c.Request.Context(), updated); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/sheets/:id
func (h *SheetHandler) Delete(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, ok := h.sheetForWrite(c, sheetID, userID); !ok {
		return
	}

	if err := h.sheets.Delete(c.Request.Context(), sheetID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateVersion handles POST /v1/sheets/:id/versions
func (h *SheetHandler) CreateVersion(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, ok := h.sheetForWrite(c, sheetID, userID); !ok {
		return
	}

	version, err := h.versioning.CreateVersion(c.Request.Context(), sheetID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Broadcast(realtime.Event{
		Type:    realtime.EventVersionCreated,
		SheetID: sheetID,
		Payload: version,
	})
	c.JSON(http.StatusCreated, version)
}

// ListVersions handles GET /v1/sheets/:id/versions
func (h *SheetHandler) ListVersions(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, ok := h.sheetForRead(c, sheetID, userID); !ok {
		return
	}

	versions, err := h.versioning.ListVersions(c.Request.Context(), sheetID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

// RestoreVersion handles POST /v1/sheets/:id/versions/:versionId/restore
func (h *SheetHandler) RestoreVersion(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	versionID, ok := pathUUID(c, "versionId")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, ok := h.sheetForWrite(c, sheetID, userID); !ok {
		return
	}

	restored, err := h.versioning.RestoreVersion(c.Request.Context(), sheetID, versionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Broadcast(realtime.Event{
		Type:    realtime.EventSheetRestored,
		SheetID: sheetID,
		Payload: restored,
	})
	c.JSON(http.StatusOK, restored)
}

// sheetForRead loads the sheet and enforces read access on its project.
// On any failure it has already written the response; the bool says
// whether to continue.
func (h *SheetHandler) sheetForRead(c *gin.Context, sheetID, userID uuid.UUID) (*models.Sheet, bool) {
	return h.sheetGuarded(c, sheetID, userID, h.guard.ProjectForRead)
}

func (h *SheetHandler) sheetForWrite(c *gin.Context, sheetID, userID uuid.UUID) (*models.Sheet, bool) {
	return h.sheetGuarded(c, sheetID, userID, h.guard.ProjectForWrite)
}

func (h *SheetHandler) sheetGuarded(
	c *gin.Context,
	sheetID, userID uuid.UUID,
	check func(context.Context, uuid.UUID, uuid.UUID) (*models.Project, bool, error),
) (*models.Sheet, bool) {
	ctx := c.Request.Context()

	sheet, err := h.sheets.FindByID(ctx, sheetID)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	if sheet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sheet not found"})
		return nil, false
	}

	_, allowed, err := check(ctx, sheet.ProjectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return nil, false
	}

	return sheet, true
}
