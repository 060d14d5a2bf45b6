package main

import (
	"sync"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

// sessionView mirrors a client's connection flag and state slots, updated
// from its events.
type sessionView struct {
	client *shoehive.Client

	mu          sync.Mutex
	connected   bool
	player      shoehive.Message
	lobby       shoehive.Message
	table       shoehive.Message
	messages    int64
	errors      int64
	disconnects int64

	unsubscribe []func()
}

// sessionSnapshot is a point-in-time copy of a sessionView.
type sessionSnapshot struct {
	Connected   bool
	Player      shoehive.Message
	Lobby       shoehive.Message
	Table       shoehive.Message
	Messages    int64
	Errors      int64
	Disconnects int64
}

func watchSession(c *shoehive.Client) *sessionView {
	v := &sessionView{client: c}

	v.unsubscribe = []func(){
		c.On(shoehive.EventConnected, func(any) {
			v.mu.Lock()
			v.connected = true
			v.mu.Unlock()
		}),
		c.On(shoehive.EventDisconnected, func(any) {
			v.mu.Lock()
			v.connected = false
			v.disconnects++
			v.mu.Unlock()
		}),
		c.On(shoehive.EventError, func(any) {
			v.mu.Lock()
			v.errors++
			v.mu.Unlock()
		}),
		c.On(shoehive.EventMessage, func(any) {
			player, lobby, table := c.PlayerState(), c.LobbyState(), c.TableState()
			v.mu.Lock()
			v.messages++
			v.player, v.lobby, v.table = player, lobby, table
			v.mu.Unlock()
		}),
	}
	return v
}

func (v *sessionView) Snapshot() sessionSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return sessionSnapshot{
		Connected:   v.connected,
		Player:      v.player,
		Lobby:       v.lobby,
		Table:       v.table,
		Messages:    v.messages,
		Errors:      v.errors,
		Disconnects: v.disconnects,
	}
}

// Close removes every subscription.
func (v *sessionView) Close() {
	for _, fn := range v.unsubscribe {
		fn()
	}
	v.unsubscribe = nil
}

// logAttrs renders the snapshot as slog key/value pairs.
func (s sessionSnapshot) logAttrs() []any {
	tables := 0
	if list, ok := s.Lobby["tables"].([]any); ok {
		tables = len(list)
	}
	tableID, _ := s.Table["id"].(string)

	return []any{
		"connected", s.Connected,
		"messages", s.Messages,
		"errors", s.Errors,
		"disconnects", s.Disconnects,
		"has_player", s.Player != nil,
		"lobby_tables", tables,
		"table_id", tableID,
	}
}
