package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/realtime"
)

// WSHandler upgrades GET /v1/ws/sheets/:id into a websocket that
// streams realtime sheet events and keeps the viewer's presence fresh.
type WSHandler struct {
	hub      *realtime.Hub
	presence *realtime.Presence
	sheet    *SheetHandler
	logger   *zap.Logger
}

func NewWSHandler(hub *realtime.Hub, presence *realtime.Presence, sheet *SheetHandler, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, presence: presence, sheet: sheet, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers send an Origin header the token-based auth already
	// covers; cross-origin clients are legitimate here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Watch handles GET /v1/ws/sheets/:id. The connection is read-only for
// the client: inbound messages are treated as heartbeats, outbound
// traffic is the event stream.
func (h *WSHandler) Watch(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	// Access check happens BEFORE the upgrade so a denied client gets a
	// proper HTTP status instead of a dropped socket.
	if _, ok := h.sheet.sheetForRead(c, sheetID, userID); !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Join(sheetID, conn)
	if err := h.presence.Touch(c.Request.Context(), sheetID, userID); err != nil {
		// Presence is cosmetic; the event stream still works without it.
		h.logger.Warn("presence touch failed", zap.Error(err))
	}

	defer func() {
		h.hub.Leave(sheetID, conn)
		if err := h.presence.Forget(c.Request.Context(), sheetID, userID); err != nil {
			h.logger.Warn("presence forget failed", zap.Error(err))
		}
		conn.Close()
	}()

	conn.SetReadLimit(512)
	for {
		conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		// Any inbound frame counts as a heartbeat.
		if err := h.presence.Touch(c.Request.Context(), sheetID, userID); err != nil {
			h.logger.Warn("presence touch failed", zap.Error(err))
		}
	}
}

// Viewers handles GET /v1/sheets/:id/viewers: who is watching the
// sheet right now.
func (h *WSHandler) Viewers(c *gin.Context) {
	sheetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, ok := h.sheet.sheetForRead(c, sheetID, userID); !ok {
		return
	}

	viewers, err := h.presence.Viewers(c.Request.Context(), sheetID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"viewers": viewers})
}
