package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/realtime"
	"github.com/atelierhq/sheetwork/internal/repository"
	"github.com/atelierhq/sheetwork/internal/service"
)

// CommentHandler handles the threaded comments on markers.
type CommentHandler struct {
	comments *service.CommentService
	markers  repository.SheetMarkerRepository
	sheet    *SheetHandler
	hub      *realtime.Hub
	logger   *zap.Logger
}

func NewCommentHandler(
	comments *service.CommentService,
	markers repository.SheetMarkerRepository,
	sheet *SheetHandler,
	hub *realtime.Hub,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		markers:  markers,
		sheet:    sheet,
		hub:      hub,
		logger:   logger,
	}
}

type createCommentRequest struct {
	Content         string  `json:"content" binding:"required"`
	ParentCommentID *string `json:"parent_comment_id"`
}

// Create handles POST /v1/markers/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	markerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parentID *uuid.UUID
	if req.ParentCommentID != nil {
		id, ok := bodyUUID(c, *req.ParentCommentID, "parent_comment_id")
		if !ok {
			return
		}
		parentID = &id
	}

	userID := middleware.GetUserID(c)
	sheetID, ok := h.markerSheetForRead(c, markerID, userID)
	if !ok {
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), markerID, userID, req.Content, parentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Broadcast(realtime.Event{
		Type:    realtime.EventCommentCreated,
		SheetID: sheetID,
		Payload: comment,
	})
	c.JSON(http.StatusCreated, comment)
}

// List handles GET /v1/markers/:id/comments, returning the two-level
// thread tree.
func (h *CommentHandler) List(c *gin.Context) {
	markerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if _, ok := h.markerSheetForRead(c, markerID, userID); !ok {
		return
	}

	tree, err := h.comments.ListComments(c.Request.Context(), markerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// markerSheetForRead resolves the marker's sheet and enforces read
// access on its project. Commenting needs read access only: client
// company users who can see a sheet can discuss it.
func (h *CommentHandler) markerSheetForRead(c *gin.Context, markerID, userID uuid.UUID) (uuid.UUID, bool) {
	marker, err := h.markers.FindByID(c.Request.Context(), markerID)
	if err != nil {
		respondError(c, h.logger, err)
		return uuid.Nil, false
	}
	if marker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "marker not found"})
		return uuid.Nil, false
	}

	if _, ok := h.sheet.sheetForRead(c, marker.SheetID, userID); !ok {
		return uuid.Nil, false
	}
	return marker.SheetID, true
}
