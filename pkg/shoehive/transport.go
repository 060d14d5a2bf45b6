package shoehive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Close codes used by the client.
const (
	CloseNormalClosure   = 1000
	CloseAbnormalClosure = 1006
)

// Dialer opens transport handles.
type Dialer interface {
	// Dial opens a connection to url offering the given sub-protocols.
	Dial(ctx context.Context, url string, protocols []string) (Conn, error)
}

// HeaderDialer is implemented by dialers that can send custom handshake headers.
// Headers supplied by an AuthStrategy are dropped for dialers without it.
type HeaderDialer interface {
	Dialer
	DialWithHeaders(ctx context.Context, url string, protocols []string, header http.Header) (Conn, error)
}

// Conn is a single live transport handle.
type Conn interface {
	// ReadMessage blocks for the next text or binary frame. A close frame from
	// the peer is reported as *CloseError.
	ReadMessage() ([]byte, error)

	// WriteMessage writes one text frame. Safe for concurrent use.
	WriteMessage(data []byte) error

	// Close sends a close frame and releases the connection. Idempotent.
	Close(code int, reason string) error

	// Subprotocol returns the negotiated sub-protocol.
	Subprotocol() string
}

// CloseError reports the close code and reason sent by the peer.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("websocket closed: %d %s", e.Code, e.Reason)
}

// closeStatus extracts the close code and reason from a read error.
// ok is false when err is not a close frame (a transport failure).
func closeStatus(err error) (code int, reason string, ok bool) {
	var ce *CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Reason, true
	}
	return CloseAbnormalClosure, err.Error(), false
}

// GorillaConfig configures a GorillaDialer.
type GorillaConfig struct {
	WriteTimeout time.Duration // Write deadline for sends
	PingInterval time.Duration // Keepalive ping period (0 = no keepalive)
	PingTimeout  time.Duration // Max time without ping/pong before the connection is stale
	ReadLimit    int64         // Max inbound frame size (0 = unlimited)
}

// DefaultGorillaConfig returns sensible defaults.
func DefaultGorillaConfig() GorillaConfig {
	return GorillaConfig{
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PingTimeout:  60 * time.Second,
		ReadLimit:    1 << 20,
	}
}

// GorillaDialer dials with github.com/gorilla/websocket. It supports custom headers.
type GorillaDialer struct {
	cfg    GorillaConfig
	logger *slog.Logger
}

// NewGorillaDialer creates a GorillaDialer.
func NewGorillaDialer(cfg GorillaConfig, logger *slog.Logger) *GorillaDialer {
	if logger == nil {
		logger = slog.Default()
	}
	return &GorillaDialer{cfg: cfg, logger: logger}
}

// Dial implements Dialer.
func (d *GorillaDialer) Dial(ctx context.Context, url string, protocols []string) (Conn, error) {
	return d.DialWithHeaders(ctx, url, protocols, nil)
}

// DialWithHeaders implements HeaderDialer.
func (d *GorillaDialer) DialWithHeaders(ctx context.Context, url string, protocols []string, header http.Header) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:        http.ProxyFromEnvironment,
		Subprotocols: protocols,
	}

	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	if d.cfg.ReadLimit > 0 {
		ws.SetReadLimit(d.cfg.ReadLimit)
	}

	c := &gorillaConn{
		cfg:        d.cfg,
		logger:     d.logger,
		conn:       ws,
		done:       make(chan struct{}),
		lastPingAt: time.Now(),
	}

	// Server sends ping, we respond with pong
	ws.SetPingHandler(func(data string) error {
		c.touch()
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		return ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	// Server responds to our ping
	ws.SetPongHandler(func(string) error {
		c.touch()
		return nil
	})

	if d.cfg.PingInterval > 0 {
		go c.heartbeatLoop()
	}

	return c, nil
}

// gorillaConn implements Conn over a gorilla connection.
type gorillaConn struct {
	cfg    GorillaConfig
	logger *slog.Logger
	conn   *websocket.Conn

	// Write serialization
	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	lastPingAt time.Time
	stale      bool
}

func (c *gorillaConn) touch() {
	c.mu.Lock()
	c.lastPingAt = time.Now()
	c.mu.Unlock()
}

// ReadMessage implements Conn.
func (c *gorillaConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err == nil {
		return data, nil
	}

	c.mu.Lock()
	stale := c.stale
	c.mu.Unlock()
	if stale {
		return nil, ErrStaleConnection
	}

	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return nil, &CloseError{Code: ce.Code, Reason: ce.Text}
	}
	return nil, err
}

// WriteMessage implements Conn.
func (c *gorillaConn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.cfg.WriteTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close implements Conn.
func (c *gorillaConn) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}

// Subprotocol implements Conn.
func (c *gorillaConn) Subprotocol() string {
	return c.conn.Subprotocol()
}

// heartbeatLoop pings the server and tears down stale connections.
func (c *gorillaConn) heartbeatLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(c.cfg.WriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Debug("failed to send ping", "error", err)
			}

			c.mu.Lock()
			lastPing := c.lastPingAt
			c.mu.Unlock()

			if c.cfg.PingTimeout > 0 && time.Since(lastPing) > c.cfg.PingTimeout {
				c.logger.Warn("no ping received, connection stale",
					"last_ping", lastPing,
					"timeout", c.cfg.PingTimeout,
				)
				c.mu.Lock()
				c.stale = true
				c.mu.Unlock()
				// Unblocks ReadMessage, which reports ErrStaleConnection.
				c.conn.Close()
				return
			}
		}
	}
}
