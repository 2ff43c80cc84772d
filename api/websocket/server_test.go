package websocket

import (
	"net/http"
	"testing"
	"time"

	"github.com/openalpha/casino-core/x/accounting/types"
)

func TestServerPublishBroadcastsMarshalledEntry(t *testing.T) {
	s := NewServer(nil)
	go s.hub.Run()

	c := &Client{send: make(chan []byte, 4)}
	s.hub.register <- c
	waitFor(func() bool { return s.hub.ClientCount() == 1 })

	s.Publish(types.AuditEntry{Seq: 7, Event: types.AuditEvent{Kind: types.EventSystemInfo, Principal: "alice"}})

	select {
	case msg := <-c.send:
		if len(msg) == 0 {
			t.Error("expected a non-empty marshalled payload")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the published entry")
	}
}

func TestConnectedAdminsReflectsHubCount(t *testing.T) {
	s := NewServer(nil)
	go s.hub.Run()

	if s.ConnectedAdmins() != 0 {
		t.Fatalf("expected zero connected admins initially, got %d", s.ConnectedAdmins())
	}

	c := &Client{send: make(chan []byte, 4)}
	s.hub.register <- c
	if !waitFor(func() bool { return s.ConnectedAdmins() == 1 }) {
		t.Fatalf("expected one connected admin after register, got %d", s.ConnectedAdmins())
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := &http.Request{Header: http.Header{}, RemoteAddr: "10.0.0.1:5000"}
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	if got := clientIP(r); got != "203.0.113.5" {
		t.Errorf("expected the first forwarded address, got %q", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := &http.Request{Header: http.Header{}, RemoteAddr: "192.168.1.9:5000"}

	if got := clientIP(r); got != "192.168.1.9" {
		t.Errorf("expected the remote addr host, got %q", got)
	}
}
