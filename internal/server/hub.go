package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans belief updates out to the websocket clients of each session.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]struct{})}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Sessions are addressed by unguessable UUIDs; the socket carries
	// no credentials, so cross-origin reads are harmless.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Add registers a connection under a session ID.
func (h *Hub) Add(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[sessionID][conn] = struct{}{}
}

// Remove unregisters and closes a connection.
func (h *Hub) Remove(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[sessionID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, sessionID)
		}
	}
	conn.Close()
}

// Broadcast sends a JSON message to every client of a session. Dead
// connections are dropped.
func (h *Hub) Broadcast(sessionID string, message any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[sessionID] {
		if err := conn.WriteJSON(message); err != nil {
			delete(h.clients[sessionID], conn)
			conn.Close()
		}
	}
	if len(h.clients[sessionID]) == 0 {
		delete(h.clients, sessionID)
	}
}

// CloseSession closes and removes every client of a session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[sessionID] {
		conn.Close()
	}
	delete(h.clients, sessionID)
}

// ClientCount returns the number of clients attached to a session.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}
