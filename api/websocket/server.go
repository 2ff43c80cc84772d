package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openalpha/casino-core/x/accounting/types"
)

// Server fronts the admin audit feed over HTTP/WebSocket and implements
// keeper.AuditSubscriber, so a Keeper can Publish directly into it without
// depending on this package.
type Server struct {
	hub        *Hub
	httpServer *http.Server
	config     *ServerConfig
}

// ServerConfig contains the admin feed's HTTP listener settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns sensible defaults for the admin feed listener.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:         "127.0.0.1",
		Port:         8090,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// NewServer constructs a Server with its own Hub. Call Start to begin
// serving, and pass the returned *Server to Keeper.SetAuditSubscriber.
func NewServer(config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	return &Server{
		hub:    NewHub(),
		config: config,
	}
}

// Start begins the hub's event loop and the HTTP listener. It blocks until
// the listener returns (normally on Stop).
func (s *Server) Start() error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/audit-feed", s.handleWebSocket)
	mux.HandleFunc("/admin/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	log.Printf("admin audit feed listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP listener.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("admin audit feed: upgrade failed: %v", err)
		return
	}

	clientID := uuid.New().String()
	adminID := r.URL.Query().Get("admin_id")
	ip := clientIP(r)

	client := NewClient(s.hub, conn, clientID, adminID, ip)
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"healthy","connected_admins":%d}`, s.hub.ClientCount())
}

// Publish implements keeper.AuditSubscriber: every appended audit entry is
// marshalled to JSON and broadcast to every connected admin client.
func (s *Server) Publish(entry types.AuditEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	s.hub.Publish(data)
}

// ConnectedAdmins returns the number of currently connected admin clients.
func (s *Server) ConnectedAdmins() int {
	return s.hub.ClientCount()
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
