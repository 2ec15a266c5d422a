package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/realtime"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// MarkerHandler handles the positional annotations on sheets. Markers
// created here are always live (attached to the current sheet); frozen
// per-version markers only come from the versioning workflow.
type MarkerHandler struct {
	markers repository.SheetMarkerRepository
	sheet   *SheetHandler
	hub     *realtime.Hub
	logger  *zap.Logger
}

func NewMarkerHandler(markers repository.SheetMarkerRepository, sheet *SheetHandler, hub *realtime.Hub, logger *zap.Logger) *MarkerHandler {
	return &MarkerHandler{markers: markers, sheet: sheet, hub: hub, logger: logger}
}

type createMarkerRequest struct {
	Type   string   `json:"type" binding:"required"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Note   *string  `json:"note"`
}

// Create handles POST /v1/sheets/:id/markers
func (h *MarkerHandler) Create(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createMarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	typ, err := models.MarkerTypeOf(req.Type)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	userID := middleware.GetUserID(c)
	if _, ok := h.sheet.sheetForWrite(c, sheetID, userID); !ok {
		return
	}

	marker := models.NewSheetMarker(sheetID, typ, req.X, req.Y, req.Width, req.Height, req.Note)
	if err := h.markers.Save(c.Request.Context(), marker); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Broadcast(realtime.Event{
		Type:    realtime.EventMarkerCreated,
		SheetID: sheetID,
		Payload: marker,
	})
	c.JSON(http.StatusCreated, marker)
}

// List handles GET /v1/sheets/:id/markers. The optional version query
// parameter switches from the live layout to a frozen one.
func (h *MarkerHandler) List(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, ok := h.sheet.sheetForRead(c, sheetID, userID); !ok {
		return
	}

	ctx := c.Request.Context()

	if raw := c.Query("version"); raw != "" {
		versionID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
			return
		}
		markers, err := h.markers.FindByVersionID(ctx, versionID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, markers)
		return
	}

	markers, err := h.markers.FindLiveBySheetID(ctx, sheetID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, markers)
}

// All fields optional: PATCH applies only what was sent and leaves the
// rest of the marker alone.
type updateMarkerRequest struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Note   *string  `json:"note"`
}

// Update handles PATCH /v1/markers/:id. Only live markers may be moved;
// a frozen version layout stays frozen.
func (h *MarkerHandler) Update(c *gin.Context) {
	markerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateMarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	marker, err := h.markers.FindByID(ctx, markerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if marker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "marker not found"})
		return
	}
	if !marker.IsLive() {
		c.JSON(http.StatusConflict, gin.H{"error": "version markers are immutable"})
		return
	}

	userID := middleware.GetUserID(c)
	if _, ok := h.sheet.sheetForWrite(c, marker.SheetID, userID); !ok {
		return
	}

	x, y := marker.X, marker.Y
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}
	width, height := marker.Width, marker.Height
	if req.Width != nil {
		width = req.Width
	}
	if req.Height != nil {
		height = req.Height
	}

	updated := marker.WithPosition(x, y, width, height)
	if req.Note != nil {
		updated = updated.WithNote(req.Note)
	}
	if err := h.markers.Save(ctx, updated); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Broadcast(realtime.Event{
		Type:    realtime.EventMarkerUpdated,
		SheetID: marker.SheetID,
		Payload: updated,
	})
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/markers/:id
func (h *MarkerHandler) Delete(c *gin.Context) {
	markerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	marker, err := h.markers.FindByID(ctx, markerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if marker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "marker not found"})
		return
	}
	if !marker.IsLive() {
		c.JSON(http.StatusConflict, gin.H{"error": "version markers are immutable"})
		return
	}

	userID := middleware.GetUserID(c)
	if _, ok := h.sheet.sheetForWrite(c, marker.SheetID, userID); !ok {
		return
	}

	if err := h.markers.Delete(ctx, markerID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Broadcast(realtime.Event{
		Type:    realtime.EventMarkerDeleted,
		SheetID: marker.SheetID,
		Payload: gin.H{"id": markerID},
	})
	c.Status(http.StatusNoContent)
}
