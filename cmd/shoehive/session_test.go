package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

func TestSessionView(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"player:state","name":"ada"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"lobby:state","tables":[{"id":"t1"},{"id":"t2"}]}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"table:state","id":"t1"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	cfg := shoehive.DefaultConfig()
	cfg.URL = wsURL(server)
	cfg.AutoReconnect = false
	client := shoehive.New(cfg, shoehive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	view := watchSession(client)
	defer view.Close()

	client.Connect()

	deadline := time.Now().Add(2 * time.Second)
	for view.Snapshot().Messages < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	snap := view.Snapshot()
	if !snap.Connected || snap.Messages != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Player["name"] != "ada" {
		t.Errorf("Player = %v", snap.Player)
	}

	attrs := snap.logAttrs()
	values := map[string]any{}
	for i := 0; i+1 < len(attrs); i += 2 {
		values[attrs[i].(string)] = attrs[i+1]
	}
	if values["lobby_tables"] != 2 || values["table_id"] != "t1" || values["has_player"] != true {
		t.Errorf("attrs = %v", values)
	}

	client.Disconnect()
	if snap := view.Snapshot(); snap.Connected || snap.Disconnects != 1 {
		t.Errorf("after disconnect: %+v", snap)
	}
}
