// internal/handlers/hub.go
package handlers

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gofish/internal/game"
	"github.com/sirupsen/logrus"
)

// hubClient is one live connection's presence in the hub. Outbound messages
// are queued on OutChan and drained by the connection's write pump.
type hubClient struct {
	ID      uuid.UUID
	OutChan chan []byte
	Cancel  func()
}

// write pushes pre-marshaled data onto the client's queue non-blockingly.
// A full or closed queue drops the message rather than stalling the table.
func (c *hubClient) write(logger *logrus.Logger, data []byte) {
	select {
	case c.OutChan <- data:
	default:
		logger.Warnf("Hub: OutChan for connection %s closed or full, dropping message.", c.ID)
	}
}

// Hub is the publish/subscribe capability shared by every connection
// handler: emit to one connection, broadcast to all, or broadcast to all but
// the sender. Events are marshaled once at publish time, in the caller's
// goroutine, so snapshots are serialized while the session lock is held.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*hubClient
	logger  *logrus.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*hubClient),
		logger:  logger,
	}
}

// Register adds a connection and returns its hub entry.
func (h *Hub) Register(id uuid.UUID, cancel func()) *hubClient {
	c := &hubClient{
		ID:      id,
		OutChan: make(chan []byte, 16),
		Cancel:  cancel,
	}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	return c
}

// Unregister removes a connection and cancels its context, which stops the
// write pump. The outbound queue is left open: a broadcast racing the
// removal may still send into it, and those messages are simply never
// drained.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	if ok && c.Cancel != nil {
		c.Cancel()
	}
}

// EmitTo sends an event to a single connection.
func (h *Hub) EmitTo(id uuid.UUID, ev game.Event) {
	data, err := h.marshal(ev)
	if err != nil {
		return
	}
	h.mu.Lock()
	c, ok := h.clients[id]
	h.mu.Unlock()
	if ok {
		c.write(h.logger, data)
	}
}

// BroadcastExcept sends an event to every connection except the sender.
func (h *Hub) BroadcastExcept(sender uuid.UUID, ev game.Event) {
	data, err := h.marshal(ev)
	if err != nil {
		return
	}
	for _, c := range h.snapshotClients() {
		if c.ID != sender {
			c.write(h.logger, data)
		}
	}
}

// BroadcastAll sends an event to every connection, the sender included.
// This is the session's BroadcastFn.
func (h *Hub) BroadcastAll(ev game.Event) {
	data, err := h.marshal(ev)
	if err != nil {
		return
	}
	for _, c := range h.snapshotClients() {
		c.write(h.logger, data)
	}
}

func (h *Hub) snapshotClients() []*hubClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

func (h *Hub) marshal(ev game.Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Errorf("Hub: failed to marshal event %q: %v", ev.Type, err)
	}
	return data, err
}
