package config

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

// ClientOptions returns the shoehive.Config described by c.
// Call after applyDefaults (Load*, Default or Finalize).
func (c *ClientConfig) ClientOptions() shoehive.Config {
	cfg := shoehive.DefaultConfig()
	cfg.URL = c.Server.URL
	cfg.HandshakeTimeout = c.Server.HandshakeTimeout
	cfg.AutoReconnect = c.Reconnect.Enabled == nil || *c.Reconnect.Enabled
	if c.Reconnect.MaxAttempts != nil {
		cfg.MaxReconnectAttempts = *c.Reconnect.MaxAttempts
	}
	cfg.ReconnectDelay = c.Reconnect.BaseDelay
	cfg.ReconnectMaxDelay = c.Reconnect.MaxDelay

	if c.RateLimit.Enabled {
		cfg.RateLimit = &shoehive.RateLimitConfig{
			PerSecond: rate.Limit(c.RateLimit.PerSecond),
			Burst:     c.RateLimit.Burst,
			Enabled:   true,
		}
	}
	return cfg
}

// Dialer builds the configured transport.
func (c *ClientConfig) Dialer(logger *slog.Logger) shoehive.Dialer {
	if c.Transport.Kind == TransportCoder {
		return shoehive.NewCoderDialer(shoehive.CoderConfig{
			WriteTimeout: c.Transport.WriteTimeout,
			ReadLimit:    c.Transport.ReadLimit,
		}, nil)
	}
	return shoehive.NewGorillaDialer(shoehive.GorillaConfig{
		WriteTimeout: c.Transport.WriteTimeout,
		PingInterval: c.Transport.PingInterval,
		PingTimeout:  c.Transport.PingTimeout,
		ReadLimit:    c.Transport.ReadLimit,
	}, logger)
}
