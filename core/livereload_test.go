package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialReloader(t *testing.T, lr LiveReloaderInterface) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(lr.Handler))
	url := "ws" + server.URL[len("http"):]

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("failed to connect to WebSocket: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	return ws, server.Close
}

func TestLiveReloader_ClientConnectsAndReceivesReload(t *testing.T) {
	lr := NewLiveReloader(nil)

	ws, closeServer := dialReloader(t, lr)
	defer closeServer()
	defer ws.Close()

	if n := lr.(*LiveReloader).ClientCount(); n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}

	lr.BroadcastReload()

	ws.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read reload message: %v", err)
	}
	if string(msg) != "reload" {
		t.Errorf("expected 'reload' message, got %q", msg)
	}
}

func TestLiveReloader_RemovesDisconnectedClients(t *testing.T) {
	lr := NewLiveReloader(nil)

	ws, closeServer := dialReloader(t, lr)
	defer closeServer()

	_ = ws.Close()
	time.Sleep(100 * time.Millisecond)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("BroadcastReload panicked after client disconnect: %v", r)
		}
	}()

	lr.BroadcastReload()

	if n := lr.(*LiveReloader).ClientCount(); n != 0 {
		t.Errorf("expected no clients after disconnect, got %d", n)
	}
}

func TestLiveReloader_IgnoreUpgradeError(t *testing.T) {
	lr := NewLiveReloader(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	lr.Handler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected HTTP 400 on upgrade failure, got %d", resp.StatusCode)
	}
}

func TestLiveReloader_BroadcastRemovesDeadConnection(t *testing.T) {
	lr := NewLiveReloader(nil)

	ws, closeServer := dialReloader(t, lr)
	defer closeServer()

	_ = ws.Close()
	time.Sleep(100 * time.Millisecond)

	reloader := lr.(*LiveReloader)
	reloader.lock.Lock()
	reloader.clients[ws] = "stale"
	reloader.lock.Unlock()

	lr.BroadcastReload()

	reloader.lock.Lock()
	_, exists := reloader.clients[ws]
	reloader.lock.Unlock()

	if exists {
		t.Errorf("expected closed connection to be removed from clients map")
	}
}
