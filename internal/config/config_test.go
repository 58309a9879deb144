package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
backend:
  base_url: "https://api.example.com"
realtime:
  url: "wss://api.example.com/ws"
session:
  user_id: "user-1"
database:
  url: "postgres://localhost:5432/aslan"
`

func TestLoadConfig(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig), false)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Backend.Timeout != 30*time.Second {
			t.Errorf("backend timeout = %s", cfg.Backend.Timeout)
		}
		if cfg.Realtime.ReconnectDelay != 5*time.Second {
			t.Errorf("reconnect delay = %s", cfg.Realtime.ReconnectDelay)
		}
		if cfg.Session.MaxDuration != 24*time.Hour || cfg.Session.InactivityTimeout != 30*time.Minute {
			t.Errorf("session limits = %s / %s", cfg.Session.MaxDuration, cfg.Session.InactivityTimeout)
		}
		if cfg.Session.TickInterval != time.Second {
			t.Errorf("tick interval = %s", cfg.Session.TickInterval)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("log defaults = %s / %s", cfg.Log.Level, cfg.Log.Format)
		}
		if cfg.Web.Port != 8090 {
			t.Errorf("web port = %d", cfg.Web.Port)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		body := minimalConfig + `
quota:
  refresh_interval: 90s
log:
  level: debug
  format: console
`
		cfg, err := LoadConfig(writeConfig(t, body), true)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Quota.RefreshInterval != 90*time.Second {
			t.Errorf("refresh interval = %s", cfg.Quota.RefreshInterval)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
			t.Errorf("log = %s / %s", cfg.Log.Level, cfg.Log.Format)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag must be carried into runtime config")
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		cases := []struct {
			strip string
			want  string
		}{
			{"base_url", "backend.base_url"},
			{"user_id", "session.user_id"},
		}
		for _, c := range cases {
			var lines []string
			for _, line := range strings.Split(minimalConfig, "\n") {
				if !strings.Contains(line, c.strip) {
					lines = append(lines, line)
				}
			}
			_, err := LoadConfig(writeConfig(t, strings.Join(lines, "\n")), false)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Errorf("stripping %s: err = %v", c.strip, err)
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
