package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/rickgao/shoehive-client/internal/config"
)

// ApplicationName tags recorder sessions in pg_stat_activity.
const ApplicationName = "shoehive-recorder"

// BuildConnString builds the recorder's PostgreSQL URL. Unset port and
// sslmode fall back to the config defaults.
func BuildConnString(cfg config.DBConfig) string {
	port := cfg.Port
	if port == 0 {
		port = config.DefaultDBPort
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}, "application_name": {ApplicationName}}.Encode(),
	}
	return u.String()
}
