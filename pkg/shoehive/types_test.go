package shoehive

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCommand_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Command{
		Action: "table:join",
		Data:   map[string]any{"tableId": "t1", "action": "spoofed"},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got["action"] != "table:join" {
		t.Errorf("action = %v, want table:join", got["action"])
	}
	if got["tableId"] != "t1" {
		t.Errorf("tableId = %v, want t1", got["tableId"])
	}
}

func TestCommand_MarshalJSONWithoutData(t *testing.T) {
	data, err := json.Marshal(Command{Action: "lobby:state:get"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"action":"lobby:state:get"}` {
		t.Errorf("got %s", data)
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantErr  bool
	}{
		{name: "typed object", input: `{"type":"table:state","id":"t1"}`, wantType: "table:state"},
		{name: "untyped object", input: `{"id":"t1"}`, wantType: ""},
		{name: "non-string type", input: `{"type":7}`, wantType: ""},
		{name: "invalid json", input: `{"type":`, wantErr: true},
		{name: "array", input: `[1,2,3]`, wantErr: true},
		{name: "string", input: `"hello"`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := decodeMessage([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", msg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.Type() != tt.wantType {
				t.Errorf("Type() = %q, want %q", msg.Type(), tt.wantType)
			}
		})
	}
}

func TestDecodeMessage_NullIsInvalid(t *testing.T) {
	_, err := decodeMessage([]byte(`null`))
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("err = %v, want ErrInvalidMessage", err)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("connection refused")
	e := &Error{Kind: ErrorKindConnection, Err: cause}
	if !errors.Is(e, cause) {
		t.Error("Error should unwrap to its cause")
	}
	if !strings.HasPrefix(e.Error(), "connectionError") {
		t.Errorf("Error() = %q", e.Error())
	}

	server := &Error{Kind: ErrorKindServer, Message: Message{"type": "error", "message": "seat taken"}}
	if server.Error() != "serverError: seat taken" {
		t.Errorf("Error() = %q", server.Error())
	}

	bare := &Error{Kind: ErrorKindServer, Message: Message{"type": "error"}}
	if bare.Error() != "serverError" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.AutoReconnect {
		t.Error("AutoReconnect should default to true")
	}
	if cfg.MaxReconnectAttempts != 5 {
		t.Errorf("MaxReconnectAttempts = %d, want 5", cfg.MaxReconnectAttempts)
	}
	if cfg.ReconnectDelay != time.Second {
		t.Errorf("ReconnectDelay = %v, want 1s", cfg.ReconnectDelay)
	}
	if cfg.RateLimit == nil || cfg.RateLimit.Enabled {
		t.Error("rate limiting should be disabled by default")
	}
}

func TestConstantTables(t *testing.T) {
	commands := CommandTypes()
	if commands["JOIN_TABLE"] != CommandJoinTable {
		t.Errorf("JOIN_TABLE = %q", commands["JOIN_TABLE"])
	}
	if len(commands) != 8 {
		t.Errorf("CommandTypes has %d entries, want 8", len(commands))
	}

	// Each call returns a fresh table.
	commands["JOIN_TABLE"] = "tampered"
	if CommandTypes()["JOIN_TABLE"] != CommandJoinTable {
		t.Error("CommandTypes shares state between calls")
	}

	if MessageTypes()["LOBBY_STATE"] != MessageLobbyState {
		t.Error("LOBBY_STATE mismatch")
	}
	if ErrorKinds()["PARSE_ERROR"] != ErrorKindParse {
		t.Error("PARSE_ERROR mismatch")
	}
	if ConnectionStates()["RECONNECTING"] != StateReconnecting {
		t.Error("RECONNECTING mismatch")
	}
}
