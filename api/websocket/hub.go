// Package websocket serves a live admin feed of audit log entries, the
// admin-facing counterpart to the bounded audit log's paginated query API
// (x/accounting/keeper.Keeper.AuditPage).
package websocket

import (
	"sync"
)

// Hub maintains the set of connected admin clients and fans out every
// published audit entry to all of them. There are no per-channel
// subscriptions here: unlike the market-data feed this is modelled on, an
// admin who connects wants the whole audit stream.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub constructs an idle Hub; call Run in its own goroutine to start
// its event loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes register/unregister/broadcast events until the process
// exits; it has no shutdown signal because the admin feed runs for the
// lifetime of the server.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full: drop for this client rather than block
					// the whole fan-out on one slow admin connection.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish pushes an already-marshalled payload onto the broadcast channel;
// Server.Publish, which implements keeper.AuditSubscriber, marshals each
// audit entry and hands it here. It never blocks: a backed-up hub
// drops the entry for the live feed rather than stall the keeper's audit
// append path, which remains the durable source of truth via AuditPage.
func (h *Hub) Publish(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

// ClientCount reports the number of connected admin clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
