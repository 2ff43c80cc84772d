package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Admin feed: origin checking is enforced by the reverse proxy
		// fronting this endpoint, not by the handler itself.
		return true
	},
}

// Client is one connected admin session subscribed to the live audit feed.
// Unlike a public market-data client it has no channel subscriptions: every
// connected admin receives every audit entry.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	id          string
	adminID     string
	ip          string
	connectedAt time.Time
}

// NewClient constructs a Client bound to hub and the given connection.
func NewClient(hub *Hub, conn *websocket.Conn, id, adminID, ip string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		id:          id,
		adminID:     adminID,
		ip:          ip,
		connectedAt: time.Now(),
	}
}

// readPump drains (and discards) client-sent frames purely to keep the
// connection's pong/read-deadline machinery alive; the feed is one-way.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("admin audit feed: websocket error: %v", err)
			}
			break
		}
	}
}

// writePump pushes queued audit entries to the connection, coalescing any
// backlog into a single newline-delimited JSON-lines frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// GetID returns the client's connection id.
func (c *Client) GetID() string { return c.id }

// GetIP returns the client's observed remote address.
func (c *Client) GetIP() string { return c.ip }

// ConnectionDuration reports how long this admin session has been open.
func (c *Client) ConnectionDuration() time.Duration {
	return time.Since(c.connectedAt)
}
