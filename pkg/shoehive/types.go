package shoehive

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Errors
var (
	ErrNotConnected      = errors.New("not connected")
	ErrAlreadyConnecting = errors.New("connection already open or opening")
	ErrRateLimited       = errors.New("command rate limit exceeded")
	ErrInvalidMessage    = errors.New("message is not a JSON object")
	ErrStaleConnection   = errors.New("connection stale (no ping)")
)

// Handler receives the payload of an emitted event.
//
// Payload types by event:
//   - EventConnected: nil
//   - EventDisconnected: DisconnectEvent
//   - EventError: *Error
//   - EventReconnectFailed: ReconnectFailedEvent
//   - EventMessage and message type names: Message
type Handler func(payload any)

// Message is an inbound server payload.
type Message map[string]any

// Type returns the routing key of the message, or "" if it has none.
func (m Message) Type() string {
	t, _ := m["type"].(string)
	return t
}

// decodeMessage parses a raw frame into a Message. The frame must hold a JSON object.
func decodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if msg == nil {
		return nil, ErrInvalidMessage
	}
	return msg, nil
}

// Command is an outbound request. It serializes flat: {"action": ..., ...data}.
type Command struct {
	Action string
	Data   map[string]any
}

// MarshalJSON flattens Data next to the action. The action wins over a
// colliding "action" key in Data.
func (c Command) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(c.Data)+1)
	maps.Copy(flat, c.Data)
	flat["action"] = c.Action
	return json.Marshal(flat)
}

// DisconnectEvent is the payload of EventDisconnected.
type DisconnectEvent struct {
	Code   int
	Reason string
}

// ReconnectFailedEvent is the payload of EventReconnectFailed.
type ReconnectFailedEvent struct {
	Attempts int
}

// Error is the payload of EventError.
type Error struct {
	Kind    ErrorKind
	Err     error   // Underlying transport or decode error (nil for server errors)
	Message Message // Server message (serverError only)
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return string(e.Kind) + ": " + e.Err.Error()
	case e.Message != nil:
		if text, ok := e.Message["message"].(string); ok {
			return string(e.Kind) + ": " + text
		}
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AuthParams customizes a connection attempt. Empty fields fall back to the
// configured URL and no protocols or headers.
type AuthParams struct {
	URL       string
	Protocols []string
	Headers   http.Header
}

// AuthStrategy is invoked synchronously on every connection attempt.
type AuthStrategy func() (AuthParams, error)

// RateLimitConfig defines the outbound command rate limit.
type RateLimitConfig struct {
	// PerSecond defines how many commands may be sent per second
	PerSecond rate.Limit
	// Burst defines the maximum burst size (token bucket capacity)
	Burst int
	// Enabled determines if rate limiting is active
	Enabled bool
}

// DefaultRateLimitConfig allows 20 commands per second with a burst of 40.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		PerSecond: 20,
		Burst:     40,
		Enabled:   true,
	}
}

// NoRateLimit returns a configuration with rate limiting disabled.
func NoRateLimit() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled: false,
	}
}

// Config configures a Client.
type Config struct {
	URL                  string           // WebSocket URL (e.g., ws://localhost:3000)
	AutoReconnect        bool             // Reconnect after the transport closes
	MaxReconnectAttempts int              // Retries before giving up (reset on every successful open)
	ReconnectDelay       time.Duration    // Base delay; attempt n waits ReconnectDelay * 1.5^(n-1)
	ReconnectMaxDelay    time.Duration    // Upper bound for a single delay (0 = uncapped)
	HandshakeTimeout     time.Duration    // Bound on a single dial
	RateLimit            *RateLimitConfig // Outbound command limit (nil = disabled)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AutoReconnect:        true,
		MaxReconnectAttempts: 5,
		ReconnectDelay:       1 * time.Second,
		HandshakeTimeout:     10 * time.Second,
		RateLimit:            NoRateLimit(),
	}
}
