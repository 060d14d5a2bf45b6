package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultMaxAttempts      = 5
	DefaultBaseDelay        = 1 * time.Second
	DefaultAuthMode         = AuthModeNone
	DefaultQueryParam       = "token"
	DefaultPerSecond        = 20
	DefaultBurst            = 40
	DefaultTransport        = TransportGorilla
	DefaultWriteTimeout     = 5 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultPingTimeout      = 60 * time.Second
	DefaultReadLimit        = 1 << 20
	DefaultBatchSize        = 500
	DefaultFlushInterval    = 1 * time.Second
	DefaultBufferSize       = 10000
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
	DefaultLogLevel         = "info"
)

// Auth modes.
const (
	AuthModeNone   = "none"
	AuthModeBearer = "bearer"
	AuthModeQuery  = "query"
	AuthModeSigned = "signed"
)

// Transport kinds.
const (
	TransportGorilla = "gorilla"
	TransportCoder   = "coder"
)

func (c *ClientConfig) applyDefaults() {
	// Server defaults
	if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = DefaultHandshakeTimeout
	}

	// Reconnect defaults
	if c.Reconnect.Enabled == nil {
		enabled := true
		c.Reconnect.Enabled = &enabled
	}
	if c.Reconnect.MaxAttempts == nil {
		attempts := DefaultMaxAttempts
		c.Reconnect.MaxAttempts = &attempts
	}
	if c.Reconnect.BaseDelay == 0 {
		c.Reconnect.BaseDelay = DefaultBaseDelay
	}

	// Auth defaults
	if c.Auth.Mode == "" {
		c.Auth.Mode = DefaultAuthMode
	}
	if c.Auth.QueryParam == "" {
		c.Auth.QueryParam = DefaultQueryParam
	}

	// Rate limit defaults
	if c.RateLimit.PerSecond == 0 {
		c.RateLimit.PerSecond = DefaultPerSecond
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultBurst
	}

	// Transport defaults
	if c.Transport.Kind == "" {
		c.Transport.Kind = DefaultTransport
	}
	if c.Transport.WriteTimeout == 0 {
		c.Transport.WriteTimeout = DefaultWriteTimeout
	}
	if c.Transport.PingInterval == 0 {
		c.Transport.PingInterval = DefaultPingInterval
	}
	if c.Transport.PingTimeout == 0 {
		c.Transport.PingTimeout = DefaultPingTimeout
	}
	if c.Transport.ReadLimit == 0 {
		c.Transport.ReadLimit = DefaultReadLimit
	}

	// Recorder defaults
	if c.Recorder.BatchSize == 0 {
		c.Recorder.BatchSize = DefaultBatchSize
	}
	if c.Recorder.FlushInterval == 0 {
		c.Recorder.FlushInterval = DefaultFlushInterval
	}
	if c.Recorder.BufferSize == 0 {
		c.Recorder.BufferSize = DefaultBufferSize
	}
	applyDBDefaults(&c.Recorder.Database)

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
