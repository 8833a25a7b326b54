package admin

import (
	gosync "sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"inkstudio/internal/modules/sync"
)

// Hub fans sync results out to connected admin consoles.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       gosync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register adds a connection and returns its id.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.connections[id] = conn

	return id
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

// SyncCompleted implements sync.Notifier: every connected console gets the
// pass summary. Dead connections are dropped on write failure.
func (h *Hub) SyncCompleted(res sync.Result) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn == nil {
			delete(h.connections, id)
			continue
		}
		if err := conn.WriteJSON(res); err != nil {
			_ = conn.Close()
			delete(h.connections, id)
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
