// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"` // bearer token (JWT)
	Timeout time.Duration `yaml:"timeout"`
}

type RealtimeConfig struct {
	URL            string        `yaml:"url"`             // ws:// or wss:// endpoint
	ReconnectDelay time.Duration `yaml:"reconnect_delay"` // fixed delay, no backoff
}

type SessionConfig struct {
	UserID            string        `yaml:"user_id"`
	MaxDuration       time.Duration `yaml:"max_duration"`
	InactivityTimeout time.Duration `yaml:"inactivity_timeout"`
	TickInterval      time.Duration `yaml:"tick_interval"`
}

type QuotaConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Session  SessionConfig  `yaml:"session"`
	Quota    QuotaConfig    `yaml:"quota"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Web      WebConfig      `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("backend.base_url is required")
	}
	if cfg.Realtime.URL == "" {
		return nil, errors.New("realtime.url is required")
	}
	if cfg.Session.UserID == "" {
		return nil, errors.New("session.user_id is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Realtime.ReconnectDelay <= 0 {
		cfg.Realtime.ReconnectDelay = 5 * time.Second
	}
	if cfg.Session.MaxDuration <= 0 {
		cfg.Session.MaxDuration = 24 * time.Hour
	}
	if cfg.Session.InactivityTimeout <= 0 {
		cfg.Session.InactivityTimeout = 30 * time.Minute
	}
	if cfg.Session.TickInterval <= 0 {
		cfg.Session.TickInterval = time.Second
	}
	if cfg.Quota.RefreshInterval <= 0 {
		cfg.Quota.RefreshInterval = 5 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8090
	}
}
