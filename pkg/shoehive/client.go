package shoehive

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	"golang.org/x/time/rate"
)

// reconnectFactor is the growth factor between successive reconnect delays.
const reconnectFactor = 1.5

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDialer sets the transport. Defaults to a GorillaDialer.
func WithDialer(d Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithAuthStrategy sets the function consulted on every connection attempt.
func WithAuthStrategy(fn AuthStrategy) Option {
	return func(c *Client) {
		c.auth = fn
	}
}

// Client owns one logical connection to a game server.
type Client struct {
	cfg     Config
	id      string
	logger  *slog.Logger
	dialer  Dialer
	auth    AuthStrategy
	limiter *rate.Limiter
	events  *eventTable

	// Connection state
	mu         sync.Mutex
	conn       Conn
	state      ConnectionState
	connected  bool
	attempts   int
	stopped    bool   // Set by Disconnect; blocks scheduled retries
	generation uint64 // Bumped per connect attempt and on Disconnect
	retryTimer *time.Timer
	dialCancel context.CancelFunc

	// Cached state slots
	slotsMu     sync.RWMutex
	playerState Message
	lobbyState  Message
	tableState  Message
}

// New creates a Client. It does not connect.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		id:     uuid.New().String(),
		logger: slog.Default(),
		state:  StateDisconnected,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("client_id", c.id)
	if c.dialer == nil {
		c.dialer = NewGorillaDialer(DefaultGorillaConfig(), c.logger)
	}
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		c.limiter = rate.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}
	c.events = newEventTable(c.logger)

	return c
}

// ID returns the unique identifier of this client instance.
func (c *Client) ID() string {
	return c.id
}

// URL returns the configured endpoint.
func (c *Client) URL() string {
	return c.cfg.URL
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// State returns the lifecycle state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReconnectAttempts returns the number of retries since the last successful open.
func (c *Client) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// On subscribes h to event and returns a func that unsubscribes it.
// Registering the same handler twice delivers the event twice.
func (c *Client) On(event string, h Handler) (unsubscribe func()) {
	return c.events.on(event, h)
}

// PlayerState returns a copy of the last player:state message, or nil.
func (c *Client) PlayerState() Message {
	c.slotsMu.RLock()
	defer c.slotsMu.RUnlock()
	return maps.Clone(c.playerState)
}

// LobbyState returns a copy of the last lobby:state message, or nil.
func (c *Client) LobbyState() Message {
	c.slotsMu.RLock()
	defer c.slotsMu.RUnlock()
	return maps.Clone(c.lobbyState)
}

// TableState returns a copy of the last table:state message, or nil.
func (c *Client) TableState() Message {
	c.slotsMu.RLock()
	defer c.slotsMu.RUnlock()
	return maps.Clone(c.tableState)
}

// Connect starts a connection attempt and returns immediately. It returns false
// if a handle is already open or opening, or if the auth strategy fails.
// Calling Connect after Disconnect re-enables automatic reconnection.
func (c *Client) Connect() bool {
	return c.open(true)
}

// Disconnect stops automatic reconnection and closes the current handle.
// A retry that was already scheduled becomes a no-op. Idempotent.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.stopped = true
	c.generation++
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	if c.dialCancel != nil {
		c.dialCancel()
		c.dialCancel = nil
	}
	conn := c.conn
	wasConnected := c.connected
	c.conn = nil
	c.connected = false
	c.attempts = 0
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn == nil {
		return
	}

	if err := conn.Close(CloseNormalClosure, "client disconnect"); err != nil {
		c.logger.Debug("close failed", "error", err)
	}
	c.logger.Info("disconnected by client")

	if wasConnected {
		c.events.emit(EventDisconnected, DisconnectEvent{
			Code:   CloseNormalClosure,
			Reason: "client disconnect",
		})
	}
}

// SendCommand sends {"action": action, ...data}. It returns false without
// writing when not connected; commands are never queued. True means the frame
// was handed to the transport, not that the server processed it.
func (c *Client) SendCommand(action string, data map[string]any) bool {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		c.logger.Error("cannot send command", "action", action, "error", ErrNotConnected)
		return false
	}

	if c.limiter != nil && !c.limiter.Allow() {
		c.logger.Warn("command dropped", "action", action, "error", ErrRateLimited)
		return false
	}

	payload, err := json.Marshal(Command{Action: action, Data: data})
	if err != nil {
		c.logger.Error("failed to encode command", "action", action, "error", err)
		return false
	}

	if err := conn.WriteMessage(payload); err != nil {
		c.logger.Error("failed to send command", "action", action, "error", err)
		return false
	}

	return true
}

// open begins a connection attempt. manual is true for caller-initiated
// connects and false for scheduled retries.
func (c *Client) open(manual bool) bool {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		state := c.state
		c.mu.Unlock()
		c.logger.Warn("connect ignored", "state", state, "error", ErrAlreadyConnecting)
		return false
	}
	if manual {
		c.stopped = false
	} else if c.stopped {
		c.mu.Unlock()
		return false
	}
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.generation++
	gen := c.generation
	c.state = StateConnecting
	ctx, cancel := context.WithCancel(context.Background())
	c.dialCancel = cancel
	c.mu.Unlock()

	url, protocols, header, err := c.resolveTarget()
	if err != nil {
		cancel()
		c.mu.Lock()
		if gen == c.generation {
			c.state = StateDisconnected
			c.dialCancel = nil
		}
		c.mu.Unlock()

		c.logger.Error("auth strategy failed", "error", err)
		c.events.emit(EventError, &Error{Kind: ErrorKindConnection, Err: err})
		return false
	}

	c.logger.Info("connecting", "url", url, "protocols", protocols)
	go c.dial(ctx, gen, url, protocols, header)
	return true
}

// resolveTarget applies the auth strategy to the configured endpoint.
func (c *Client) resolveTarget() (url string, protocols []string, header http.Header, err error) {
	url = c.cfg.URL
	if c.auth == nil {
		return url, nil, nil, nil
	}

	params, err := c.auth()
	if err != nil {
		return "", nil, nil, err
	}
	if params.URL != "" {
		url = params.URL
	}
	protocols = params.Protocols

	if len(params.Headers) > 0 {
		if _, ok := c.dialer.(HeaderDialer); ok {
			header = params.Headers
		} else {
			c.logger.Debug("transport does not support custom headers, skipping", "count", len(params.Headers))
		}
	}
	return url, protocols, header, nil
}

// dial opens the transport and runs its read loop until it closes.
func (c *Client) dial(ctx context.Context, gen uint64, url string, protocols []string, header http.Header) {
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	var (
		conn Conn
		err  error
	)
	if hd, ok := c.dialer.(HeaderDialer); ok && header != nil {
		conn, err = hd.DialWithHeaders(ctx, url, protocols, header)
	} else {
		conn, err = c.dialer.Dial(ctx, url, protocols)
	}

	if err != nil {
		if !c.isCurrent(gen) {
			return
		}
		c.logger.Warn("connection failed", "url", url, "error", err)
		c.events.emit(EventError, &Error{Kind: ErrorKindConnection, Err: err})
		c.handleClose(gen, CloseAbnormalClosure, err.Error())
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		// Disconnect won the race with the handshake.
		conn.Close(CloseNormalClosure, "client disconnect")
		return
	}
	c.conn = conn
	c.connected = true
	c.attempts = 0
	c.state = StateConnected
	c.dialCancel = nil
	c.mu.Unlock()

	c.logger.Info("connected", "url", url, "subprotocol", conn.Subprotocol())
	c.events.emit(EventConnected, nil)

	c.readLoop(gen, conn)
}

// readLoop reads frames from conn and routes them until the transport closes.
func (c *Client) readLoop(gen uint64, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if !c.isCurrent(gen) {
				return
			}

			code, reason, ok := closeStatus(err)
			if !ok {
				c.logger.Warn("connection error", "error", err)
				c.events.emit(EventError, &Error{Kind: ErrorKindSocket, Err: err})
			}
			conn.Close(CloseNormalClosure, "")
			c.handleClose(gen, code, reason)
			return
		}

		msg, err := decodeMessage(data)
		if err != nil {
			c.logger.Warn("dropping unparseable message", "error", err, "size", len(data))
			c.events.emit(EventError, &Error{Kind: ErrorKindParse, Err: err})
			continue
		}

		c.route(msg)
	}
}

// route caches known state messages, then emits the type-named event and
// the generic message event.
func (c *Client) route(msg Message) {
	typ := msg.Type()

	c.slotsMu.Lock()
	switch typ {
	case MessagePlayerState:
		c.playerState = msg
	case MessageLobbyState:
		c.lobbyState = msg
	case MessageTableState:
		c.tableState = msg
	}
	c.slotsMu.Unlock()

	switch typ {
	case "":
	case MessageError:
		c.events.emit(EventError, &Error{Kind: ErrorKindServer, Message: msg})
	default:
		c.events.emit(typ, msg)
	}

	c.events.emit(EventMessage, msg)
}

// handleClose records a closed handle and schedules a retry if allowed.
func (c *Client) handleClose(gen uint64, code int, reason string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connected = false
	c.state = StateDisconnected
	c.dialCancel = nil

	var (
		retry     bool
		exhausted bool
		delay     time.Duration
	)
	if c.cfg.AutoReconnect && !c.stopped {
		if c.attempts < c.cfg.MaxReconnectAttempts {
			c.attempts++
			delay = c.reconnectDelay(c.attempts)
			c.state = StateReconnecting
			c.retryTimer = time.AfterFunc(delay, func() { c.retry(gen) })
			retry = true
		} else {
			exhausted = true
		}
	}
	attempts := c.attempts
	c.mu.Unlock()

	c.logger.Info("connection closed", "code", code, "reason", reason)
	c.events.emit(EventDisconnected, DisconnectEvent{Code: code, Reason: reason})

	switch {
	case retry:
		c.logger.Info("scheduling reconnect",
			"attempt", attempts,
			"max_attempts", c.cfg.MaxReconnectAttempts,
			"delay", delay,
		)
	case exhausted:
		c.logger.Warn("reconnect attempts exhausted", "attempts", attempts)
		c.events.emit(EventReconnectFailed, ReconnectFailedEvent{Attempts: attempts})
	}
}

// retry runs a scheduled reconnect unless Disconnect or a newer attempt superseded it.
func (c *Client) retry(gen uint64) {
	c.mu.Lock()
	stale := c.stopped || gen != c.generation || c.state != StateReconnecting
	c.mu.Unlock()

	if stale {
		c.logger.Debug("ignoring stale reconnect timer")
		return
	}
	c.open(false)
}

// reconnectDelay returns the wait before retry number attempt (1-based).
func (c *Client) reconnectDelay(attempt int) time.Duration {
	maxDelay := c.cfg.ReconnectMaxDelay
	if maxDelay <= 0 {
		maxDelay = time.Duration(math.MaxInt64)
	}
	b := &backoff.Backoff{
		Min:    c.cfg.ReconnectDelay,
		Max:    maxDelay,
		Factor: reconnectFactor,
	}
	return b.ForAttempt(float64(attempt - 1))
}

func (c *Client) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}
