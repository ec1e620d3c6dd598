package ws

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vedran77/lawnpool/internal/metrics"
)

// Broadcaster delivers an encoded event to every connection in a room.
type Broadcaster interface {
	Broadcast(ctx context.Context, room string, data []byte) error
}

// Hub tracks connected clients and their room subscriptions on this instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnected()
	log.Info().Str("client", c.id).Int("total", total).Msg("ws client connected")
}

// Unregister drops the client from every room and stops its write pump.
// Calling it more than once is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		for room := range c.rooms {
			h.leaveLocked(c, room)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.close()
	metrics.WSDisconnected()
	log.Info().Str("client", c.id).Int("total", total).Msg("ws client disconnected")
}

// Subscribe adds the client to room. Unknown clients are ignored.
func (h *Hub) Subscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast queues data on every client in room. A client whose buffer is
// full is disconnected.
func (h *Hub) Broadcast(_ context.Context, room string, data []byte) error {
	var slow []*Client

	h.mu.RLock()
	for c := range h.rooms[room] {
		select {
		case c.send <- data:
			metrics.WSDelivered()
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("client", c.id).Str("room", room).Msg("ws client buffer full, disconnecting")
		h.Unregister(c)
	}
	return nil
}

func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}
