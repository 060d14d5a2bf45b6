package shoehive

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// CoderConfig configures a CoderDialer.
type CoderConfig struct {
	WriteTimeout time.Duration // Bound on a single write
	ReadLimit    int64         // Max inbound frame size (coder/websocket defaults to 32 KiB)
}

// DefaultCoderConfig returns sensible defaults.
func DefaultCoderConfig() CoderConfig {
	return CoderConfig{
		WriteTimeout: 5 * time.Second,
		ReadLimit:    1 << 20,
	}
}

// CoderDialer dials with github.com/coder/websocket.
type CoderDialer struct {
	cfg        CoderConfig
	httpClient *http.Client
}

// NewCoderDialer creates a CoderDialer. A nil httpClient uses http.DefaultClient.
func NewCoderDialer(cfg CoderConfig, httpClient *http.Client) *CoderDialer {
	return &CoderDialer{cfg: cfg, httpClient: httpClient}
}

// Dial implements Dialer.
func (d *CoderDialer) Dial(ctx context.Context, url string, protocols []string) (Conn, error) {
	return d.DialWithHeaders(ctx, url, protocols, nil)
}

// DialWithHeaders implements HeaderDialer.
func (d *CoderDialer) DialWithHeaders(ctx context.Context, url string, protocols []string, header http.Header) (Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient:   d.httpClient,
		HTTPHeader:   header,
		Subprotocols: protocols,
	})
	if err != nil {
		return nil, err
	}
	if d.cfg.ReadLimit > 0 {
		ws.SetReadLimit(d.cfg.ReadLimit)
	}

	// Reads outlive the dial context; they are bounded by Close instead.
	readCtx, cancel := context.WithCancel(context.Background())
	return &coderConn{
		cfg:     d.cfg,
		conn:    ws,
		readCtx: readCtx,
		cancel:  cancel,
	}, nil
}

// coderConn implements Conn over a coder/websocket connection.
type coderConn struct {
	cfg  CoderConfig
	conn *websocket.Conn

	readCtx context.Context
	cancel  context.CancelFunc

	closeOnce sync.Once
}

// ReadMessage implements Conn.
func (c *coderConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.Read(c.readCtx)
	if err == nil {
		return data, nil
	}

	var ce websocket.CloseError
	if errors.As(err, &ce) {
		return nil, &CloseError{Code: int(ce.Code), Reason: ce.Reason}
	}
	return nil, err
}

// WriteMessage implements Conn.
func (c *coderConn) WriteMessage(data []byte) error {
	ctx := context.Background()
	if c.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.WriteTimeout)
		defer cancel()
	}
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Close implements Conn.
func (c *coderConn) Close(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close(websocket.StatusCode(code), reason)
		c.cancel()
	})
	return err
}

// Subprotocol implements Conn.
func (c *coderConn) Subprotocol() string {
	return c.conn.Subprotocol()
}
