package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/rickgao/shoehive-client/internal/auth"
	"github.com/rickgao/shoehive-client/internal/config"
	"github.com/rickgao/shoehive-client/internal/version"
	"github.com/rickgao/shoehive-client/pkg/shoehive"
)

// settings are the global flags shared by every command.
type settings struct {
	configPath string
	envFile    string
	envFileSet bool
	url        string
	logLevel   string
}

func settingsFrom(cmd *cli.Command) settings {
	root := cmd.Root()
	return settings{
		configPath: root.String("config"),
		envFile:    root.String("env-file"),
		envFileSet: root.IsSet("env-file"),
		url:        root.String("url"),
		logLevel:   root.String("log-level"),
	}
}

// loadEnv loads a dotenv file. A missing file is only an error when the
// path was given explicitly.
func loadEnv(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// loadConfig loads the env file and config, then applies flag overrides.
func loadConfig(s settings) (*config.ClientConfig, error) {
	if err := loadEnv(s.envFile, s.envFileSet); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if s.configPath != "" {
		var err error
		cfg, err = config.LoadWithDefaults(s.configPath)
		if err != nil {
			return nil, err
		}
	}

	if s.url != "" {
		cfg.Server.URL = s.url
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.ClientConfig) (*slog.Logger, error) {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// authStrategy builds the connection strategy for the configured auth mode.
// Every handshake carries the client User-Agent.
func authStrategy(cfg *config.ClientConfig) (shoehive.AuthStrategy, error) {
	var strategy shoehive.AuthStrategy

	switch cfg.Auth.Mode {
	case config.AuthModeBearer:
		strategy = auth.Bearer(cfg.Auth.Token)
	case config.AuthModeQuery:
		strategy = auth.QueryToken(cfg.Server.URL, cfg.Auth.QueryParam, cfg.Auth.Token)
	case config.AuthModeSigned:
		creds, err := auth.LoadCredentials(cfg.Auth.KeyID, cfg.Auth.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		strategy = auth.Signed(cfg.Server.URL, creds)
	}

	strategy = auth.Header(strategy, "User-Agent", version.UserAgent())
	if len(cfg.Auth.Protocols) > 0 {
		strategy = auth.Protocols(strategy, cfg.Auth.Protocols...)
	}
	return strategy, nil
}

func newClient(cfg *config.ClientConfig, logger *slog.Logger) (*shoehive.Client, error) {
	strategy, err := authStrategy(cfg)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	return shoehive.New(cfg.ClientOptions(),
		shoehive.WithLogger(logger),
		shoehive.WithDialer(cfg.Dialer(logger)),
		shoehive.WithAuthStrategy(strategy),
	), nil
}

// setup resolves config, logger and client for a command.
func setup(cmd *cli.Command) (*config.ClientConfig, *slog.Logger, *shoehive.Client, error) {
	cfg, err := loadConfig(settingsFrom(cmd))
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(cmd.Root().ErrWriter, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(logger)

	logger.Info("starting shoehive client",
		"version", version.Version,
		"commit", version.Commit,
		"url", cfg.Server.URL,
		"transport", cfg.Transport.Kind,
		"auth", cfg.Auth.Mode,
	)

	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, client, nil
}
