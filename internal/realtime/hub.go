package realtime

import (
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active user connections and delivers task workflow
// notifications. Delivery is fire-and-forget: a failed or absent client
// never affects the state change that produced the event. Admin
// connections are tracked separately so review-ready events can fan out
// to every admin currently online.
type Hub struct {
	mu              sync.RWMutex
	userIdToClients map[string]map[Client]struct{}
	adminIds        map[string]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns the process-wide hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// NewHub builds an empty hub. Tests use this directly; the server shares
// one instance via GetHub.
func NewHub() *Hub {
	return &Hub{
		userIdToClients: make(map[string]map[Client]struct{}),
		adminIds:        make(map[string]struct{}),
	}
}

// Register adds a client under a user ID. isAdmin marks the user for
// admin-wide fanout.
func (h *Hub) Register(userID string, isAdmin bool, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userIdToClients[userID]; !ok {
		h.userIdToClients[userID] = make(map[Client]struct{})
	}
	h.userIdToClients[userID][client] = struct{}{}
	if isAdmin {
		h.adminIds[userID] = struct{}{}
	}
}

// Unregister removes a client; if the user has no more clients, cleans up
// both maps.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userIdToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userIdToClients, userID)
			delete(h.adminIds, userID)
		}
	}
}

// Broadcast sends a message to all clients of a user.
func (h *Hub) Broadcast(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.broadcastLocked(userID, message)
}

// BroadcastAdmins sends a message to every connected admin user.
func (h *Hub) BroadcastAdmins(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for adminID := range h.adminIds {
		h.broadcastLocked(adminID, message)
	}
}

func (h *Hub) broadcastLocked(userID string, message []byte) {
	clients := h.userIdToClients[userID]
	for c := range clients {
		if ok := c.Send(message); !ok {
			// client write failed; let the handler clean it up on its side
		}
	}
}
