package config

import "time"

// ClientConfig is the root configuration for a shoehive client.
type ClientConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Transport TransportConfig `yaml:"transport"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig identifies the game server endpoint.
type ServerConfig struct {
	URL              string        `yaml:"url"` // ws:// or wss:// endpoint
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// ReconnectConfig holds automatic reconnection settings.
// Attempt n waits base_delay * 1.5^(n-1), capped at max_delay when set.
type ReconnectConfig struct {
	Enabled     *bool         `yaml:"enabled"`      // nil means enabled
	MaxAttempts *int          `yaml:"max_attempts"` // nil means DefaultMaxAttempts; 0 gives up on the first drop
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"` // 0 = uncapped
}

// AuthConfig selects how connection attempts are authenticated.
type AuthConfig struct {
	Mode           string   `yaml:"mode"` // none, bearer, query, signed
	Token          string   `yaml:"token"`
	QueryParam     string   `yaml:"query_param"`
	KeyID          string   `yaml:"key_id"`           // Key ID for the SHOEHIVE-ACCESS-KEY header
	PrivateKeyPath string   `yaml:"private_key_path"` // Path to RSA private key PEM file
	Protocols      []string `yaml:"protocols"`
}

// RateLimitConfig bounds outbound commands.
type RateLimitConfig struct {
	Enabled   bool    `yaml:"enabled"`
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// TransportConfig selects and tunes the WebSocket implementation.
type TransportConfig struct {
	Kind         string        `yaml:"kind"` // gorilla or coder
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"` // gorilla only
	PingTimeout  time.Duration `yaml:"ping_timeout"`  // gorilla only
	ReadLimit    int64         `yaml:"read_limit"`
}

// RecorderConfig holds settings for persisting inbound messages.
type RecorderConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
	Database      DBConfig      `yaml:"database"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
