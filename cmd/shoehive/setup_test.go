package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rickgao/shoehive-client/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_EnvFileExpandsConfig(t *testing.T) {
	// Registered so the variable is restored after the test.
	t.Setenv("TEST_SHOEHIVE_ENV_TOKEN", "")
	os.Unsetenv("TEST_SHOEHIVE_ENV_TOKEN")

	envFile := writeFile(t, ".env", "TEST_SHOEHIVE_ENV_TOKEN=from-dotenv\n")
	cfgFile := writeFile(t, "client.yaml", `
server:
  url: ws://localhost:3000
auth:
  mode: bearer
  token: ${TEST_SHOEHIVE_ENV_TOKEN}
`)

	cfg, err := loadConfig(settings{
		configPath: cfgFile,
		envFile:    envFile,
		envFileSet: true,
	})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Auth.Token != "from-dotenv" {
		t.Errorf("Auth.Token = %q, want from-dotenv", cfg.Auth.Token)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfgFile := writeFile(t, "client.yaml", "server:\n  url: ws://from-file:3000\n")

	cfg, err := loadConfig(settings{
		configPath: cfgFile,
		url:        "wss://override.example.com/ws",
		logLevel:   "debug",
	})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Server.URL != "wss://override.example.com/ws" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := loadConfig(settings{url: "ws://localhost:3000"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Reconnect.MaxAttempts == nil || *cfg.Reconnect.MaxAttempts != config.DefaultMaxAttempts {
		t.Errorf("defaults not applied: %+v", cfg.Reconnect)
	}

	if _, err := loadConfig(settings{}); err == nil {
		t.Error("expected error without a server URL")
	}
}

func TestLoadEnv(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	if err := loadEnv(missing, false); err != nil {
		t.Errorf("implicit missing env file should be ignored: %v", err)
	}
	if err := loadEnv(missing, true); err == nil {
		t.Error("explicit missing env file should fail")
	}
	if err := loadEnv("", true); err != nil {
		t.Errorf("empty path should be a no-op: %v", err)
	}
}

func TestAuthStrategy(t *testing.T) {
	tests := []struct {
		name       string
		auth       config.AuthConfig
		wantURL    string
		wantHeader string
		wantErr    bool
	}{
		{
			name: "none",
			auth: config.AuthConfig{Mode: config.AuthModeNone},
		},
		{
			name:       "bearer",
			auth:       config.AuthConfig{Mode: config.AuthModeBearer, Token: "abc"},
			wantHeader: "Bearer abc",
		},
		{
			name:    "query",
			auth:    config.AuthConfig{Mode: config.AuthModeQuery, Token: "abc", QueryParam: "t"},
			wantURL: "ws://localhost:3000/ws?t=abc",
		},
		{
			name:    "signed with missing key",
			auth:    config.AuthConfig{Mode: config.AuthModeSigned, KeyID: "kid", PrivateKeyPath: "/nonexistent.pem"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Server.URL = "ws://localhost:3000/ws"
			cfg.Auth = tt.auth
			cfg.Auth.Protocols = []string{"shoehive.v1"}

			strategy, err := authStrategy(cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("authStrategy failed: %v", err)
			}

			params, err := strategy()
			if err != nil {
				t.Fatalf("strategy failed: %v", err)
			}
			if params.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", params.URL, tt.wantURL)
			}
			if got := params.Headers.Get("Authorization"); got != tt.wantHeader {
				t.Errorf("Authorization = %q, want %q", got, tt.wantHeader)
			}
			if params.Headers.Get("User-Agent") == "" {
				t.Error("User-Agent header missing")
			}
			if len(params.Protocols) != 1 || params.Protocols[0] != "shoehive.v1" {
				t.Errorf("Protocols = %v", params.Protocols)
			}
		})
	}
}
