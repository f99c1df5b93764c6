package websocket

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Hub tracks connected clients per game and fans messages out to them
type Hub struct {
	clients   map[int]map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan ServerMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		broadcast:  make(chan ServerMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx ends
func (h *Hub) Run(ctx context.Context) {
	log.Info("✓ WebSocket hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister removes a client from the hub. Safe to call after Run returned.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues msg for the clients following msg.GameID. Drops it when the queue is full.
func (h *Hub) Broadcast(msg ServerMessage) {
	select {
	case h.broadcast <- msg:
	default:
		log.WithField("game_id", msg.GameID).Warn("broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	set, ok := h.clients[c.GameID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[c.GameID] = set
	}
	set[c] = true

	log.WithFields(log.Fields{"client_id": c.ID, "game_id": c.GameID}).Debug("websocket client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	set := h.clients[c.GameID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.GameID)
	}
	close(c.Send)

	log.WithFields(log.Fields{"client_id": c.ID, "game_id": c.GameID}).Debug("websocket client disconnected")
}

// deliver sends msg to every client of its game; slow clients are dropped
func (h *Hub) deliver(msg ServerMessage) {
	h.clientsMu.RLock()
	targets := make([]*Client, 0, len(h.clients[msg.GameID]))
	for c := range h.clients[msg.GameID] {
		targets = append(targets, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range targets {
		if !c.TrySend(msg) {
			log.WithField("client_id", c.ID).Warn("client buffer full, disconnecting")
			h.unregisterClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.WithField("games", len(h.clients)).Info("shutting down websocket hub")
	for gameID, set := range h.clients {
		for c := range set {
			close(c.Send)
		}
		delete(h.clients, gameID)
	}
}
