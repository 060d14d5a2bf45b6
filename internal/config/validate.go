package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url is invalid: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server.url must use ws or wss, got %q", u.Scheme)
	}
	if c.Server.HandshakeTimeout < 0 {
		return errors.New("server.handshake_timeout must be >= 0")
	}

	if c.Reconnect.MaxAttempts != nil && *c.Reconnect.MaxAttempts < 0 {
		return errors.New("reconnect.max_attempts must be >= 0")
	}
	if c.Reconnect.BaseDelay <= 0 {
		return errors.New("reconnect.base_delay must be > 0")
	}
	if c.Reconnect.MaxDelay < 0 {
		return errors.New("reconnect.max_delay must be >= 0")
	}
	if c.Reconnect.MaxDelay > 0 && c.Reconnect.MaxDelay < c.Reconnect.BaseDelay {
		return fmt.Errorf("reconnect.max_delay (%v) cannot be below base_delay (%v)", c.Reconnect.MaxDelay, c.Reconnect.BaseDelay)
	}

	if err := c.Auth.validate(); err != nil {
		return err
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.PerSecond <= 0 {
			return errors.New("rate_limit.per_second must be > 0")
		}
		if c.RateLimit.Burst < 1 {
			return errors.New("rate_limit.burst must be >= 1")
		}
	}

	switch c.Transport.Kind {
	case TransportGorilla, TransportCoder:
	default:
		return fmt.Errorf("transport.kind must be gorilla or coder, got %q", c.Transport.Kind)
	}
	if c.Transport.WriteTimeout < 0 {
		return errors.New("transport.write_timeout must be >= 0")
	}
	if c.Transport.PingInterval < 0 {
		return errors.New("transport.ping_interval must be >= 0")
	}
	if c.Transport.PingTimeout < 0 {
		return errors.New("transport.ping_timeout must be >= 0")
	}
	if c.Transport.ReadLimit < 0 {
		return errors.New("transport.read_limit must be >= 0")
	}

	if c.Recorder.Enabled {
		if c.Recorder.BatchSize < 1 {
			return errors.New("recorder.batch_size must be >= 1")
		}
		if c.Recorder.FlushInterval <= 0 {
			return errors.New("recorder.flush_interval must be > 0")
		}
		if c.Recorder.BufferSize < 1 {
			return errors.New("recorder.buffer_size must be >= 1")
		}
		if err := c.Recorder.Database.validate("recorder.database"); err != nil {
			return err
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

func (a *AuthConfig) validate() error {
	switch a.Mode {
	case AuthModeNone:
	case AuthModeBearer, AuthModeQuery:
		if a.Token == "" {
			return fmt.Errorf("auth.token is required for mode %s", a.Mode)
		}
	case AuthModeSigned:
		if a.KeyID == "" {
			return errors.New("auth.key_id is required for mode signed")
		}
		if a.PrivateKeyPath == "" {
			return errors.New("auth.private_key_path is required for mode signed")
		}
	default:
		return fmt.Errorf("auth.mode must be none, bearer, query or signed, got %q", a.Mode)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}
