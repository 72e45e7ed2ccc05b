// Package ws owns the realtime fan-out to connected clients. The hub keeps
// one buffered send channel per client and never writes to a websocket
// itself; each connection's handler goroutine drains its channel.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// sendBuffer sizes each client's channel; broadcasts to a full, stuck
	// client time out rather than block the caller forever.
	sendBuffer  = 16
	sendTimeout = time.Second
)

// envelope is the wire shape of every outbound event.
type envelope struct {
	Type string `json:"type"`
	Data Event  `json:"data"`
}

// Client is one connected websocket peer.
type Client struct {
	ID   string
	send chan []byte
	done chan struct{}
}

// Send returns the channel the connection's writer loop drains.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Done is closed when the client is unregistered.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Hub tracks connected clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Register adds a new client and returns it.
func (h *Hub) Register() *Client {
	c := &Client{
		ID:   uuid.New().String(),
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c.ID] = c
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("client registered", zap.String("client", c.ID), zap.Int("clients", count))
	return c
}

// Unregister removes a client. The send channel is left open so an
// in-flight broadcast cannot hit a closed channel; Done unblocks it.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	count := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.log.Debug("client unregistered", zap.String("client", id), zap.Int("clients", count))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends an event to every connected client. Clients are collected
// under the lock and written to without it, so a slow peer cannot stall
// registration.
func (h *Hub) Publish(e Event) {
	payload, err := json.Marshal(envelope{Type: e.EventName(), Data: e})
	if err != nil {
		h.log.Error("marshal event", zap.String("event", e.EventName()), zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.deliver(c, payload, e.EventName())
	}
}

// SendTo sends an event to a single client, if still connected.
func (h *Hub) SendTo(clientID string, e Event) {
	payload, err := json.Marshal(envelope{Type: e.EventName(), Data: e})
	if err != nil {
		h.log.Error("marshal event", zap.String("event", e.EventName()), zap.Error(err))
		return
	}
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(c, payload, e.EventName())
}

func (h *Hub) deliver(c *Client, payload []byte, name string) {
	select {
	case c.send <- payload:
	case <-c.done:
	case <-time.After(sendTimeout):
		h.log.Warn("dropping event for slow client",
			zap.String("client", c.ID), zap.String("event", name))
	}
}
