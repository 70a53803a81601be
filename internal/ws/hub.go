package ws

import (
	"encoding/json"
	"sync"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
)

// Hub fans task events out to every open connection of the owning user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "user_id", c.UserID, "connections", len(set))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	logger.Debug("ws client unregistered", "user_id", c.UserID)
}

// Connections reports how many sockets a user has open.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish never blocks: a client whose buffer is full misses the event.
func (h *Hub) Publish(userID int64, ev domain.TaskEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error("ws marshal event failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping event", "user_id", userID, "type", ev.Type)
		}
	}
}
