package server

import (
	"log"
	"sync"
)

// Hub tracks connected clients and implements game.Gateway. Delivery is
// fire-and-forget: write failures are logged and left for the failing
// connection's read loop to clean up.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// snapshot returns the current client set so writes happen without the
// hub lock held.
func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

func (h *Hub) Broadcast(msg any) {
	for _, c := range h.snapshot() {
		if err := c.SafeWriteJSON(msg); err != nil {
			log.Printf("[Broadcast] write to %s failed: %v", c.ID, err)
		}
	}
}

func (h *Hub) BroadcastExcept(id string, msg any) {
	for _, c := range h.snapshot() {
		if c.ID == id {
			continue
		}
		if err := c.SafeWriteJSON(msg); err != nil {
			log.Printf("[BroadcastExcept] write to %s failed: %v", c.ID, err)
		}
	}
}

func (h *Hub) SendTo(id string, msg any) {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.SafeWriteJSON(msg); err != nil {
		log.Printf("[SendTo] write to %s failed: %v", id, err)
	}
}
