// internal/websocket/hub.go
// WebSocket hub manages client connections and session-change broadcasting.

package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active websocket connections and broadcasts messages.
type Hub struct {
	// Registered clients by session ID.
	sessions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	logger *log.Logger
	mu     sync.RWMutex
}

// Message represents a WebSocket message.
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Printf("client registered for session %s", client.sessionID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeClient(client)
	client.close()

	h.logger.Printf("client unregistered from session %s", client.sessionID)
}

func (h *Hub) removeClient(client *Client) {
	if clients, exists := h.sessions[client.sessionID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Printf("failed to marshal message: %v", err)
		return
	}

	clients, exists := h.sessions[message.SessionID]
	if !exists {
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.removeClient(client)
			client.close()
		}
	}
}

// BroadcastSessionUpdate notifies every subscriber of a session that its
// state changed. The payload is a thin projection, not the full Session -
// clients re-fetch details over the presentation HTTP surface.
func (h *Hub) BroadcastSessionUpdate(sessionID string, updateType string, data interface{}) {
	h.broadcast <- &Message{Type: updateType, SessionID: sessionID, Data: data}
}
