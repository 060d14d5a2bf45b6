// Package shoehive implements the client side of a shoehive game server connection.
//
// The Client:
//   - Owns one logical WebSocket connection (at most one live handle at a time)
//   - Reconnects with exponential backoff (base delay * 1.5^(attempt-1))
//   - Routes inbound JSON messages by their "type" field to subscribed handlers
//   - Caches the latest player, lobby and table state messages
//   - Sends flat {"action": ..., ...data} commands
//
// Events are delivered to handlers in emission order and never concurrently
// for a single Client. A panicking handler is logged and does not prevent
// the remaining handlers from running.
//
// Example:
//
//	cfg := shoehive.DefaultConfig()
//	cfg.URL = "ws://localhost:3000"
//	client := shoehive.New(cfg, shoehive.WithLogger(logger))
//
//	client.On(shoehive.MessageLobbyState, func(payload any) {
//	    msg := payload.(shoehive.Message)
//	    fmt.Println("tables:", msg["tables"])
//	})
//	client.On(shoehive.EventConnected, func(any) {
//	    client.GetLobbyState()
//	})
//
//	client.Connect()
//	defer client.Disconnect()
package shoehive
