package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is what gets pushed to every client watching a sheet. Payload is
// the entity that changed (marker, comment, version, sheet), already in
// its JSON shape.
type Event struct {
	Type    string    `json:"type"`
	SheetID uuid.UUID `json:"sheet_id"`
	Payload any       `json:"payload,omitempty"`
}

// Event types broadcast by the API layer.
const (
	EventMarkerCreated  = "marker.created"
	EventMarkerUpdated  = "marker.updated"
	EventMarkerDeleted  = "marker.deleted"
	EventCommentCreated = "comment.created"
	EventVersionCreated = "version.created"
	EventSheetRestored  = "sheet.restored"
)

// client wraps a connection with its write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and Broadcast
// runs on whatever request goroutine produced the event, so writes to
// one connection must be serialized here.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (cl *client) send(event Event) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(event)
}

// Hub fans events out to websocket connections grouped per sheet.
//
// Broadcast is best-effort: a slow or dead connection is dropped, and
// hub failures never propagate back into the write path that triggered
// the event.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*websocket.Conn]*client
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*websocket.Conn]*client),
		logger: logger,
	}
}

// Join registers a connection as a watcher of the sheet.
func (h *Hub) Join(sheetID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sheetID]
	if !ok {
		room = make(map[*websocket.Conn]*client)
		h.rooms[sheetID] = room
	}
	if _, ok := room[conn]; !ok {
		room[conn] = &client{conn: conn}
	}
}

// Leave removes a connection. Empty rooms are deleted so the map does
// not grow with every sheet ever opened.
func (h *Hub) Leave(sheetID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sheetID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, sheetID)
	}
}

// Broadcast sends the event to every connection in the sheet's room.
// Write errors evict the connection; the caller is never told.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[event.SheetID]))
	for _, cl := range h.rooms[event.SheetID] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(event); err != nil {
			h.logger.Debug("dropping dead websocket",
				zap.String("sheet_id", event.SheetID.String()),
				zap.Error(err),
			)
			cl.conn.Close()
			h.Leave(event.SheetID, cl.conn)
		}
	}
}

// Watchers returns how many connections are in a sheet's room.
func (h *Hub) Watchers(sheetID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sheetID])
}
