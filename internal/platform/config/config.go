package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Values come from an optional YAML file with QUORUM_* environment
// overrides applied on top, so containers can tweak a baked-in file.
type Config struct {
	ServiceName string           `yaml:"service_name"`
	Gateway     GatewayConfig    `yaml:"gateway"`
	Database    DatabaseConfig   `yaml:"database"`
	Server      ServerConfig     `yaml:"server"`
	Dispatcher  DispatcherConfig `yaml:"dispatcher"`
	Log         LogConfig        `yaml:"log"`
}

// GatewayConfig points at the chat gateway the bot talks through.
type GatewayConfig struct {
	URL    string  `yaml:"url"`
	Token  string  `yaml:"token"`
	Admins []int64 `yaml:"admins"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DispatcherConfig tunes the update polling loop.
type DispatcherConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	BatchSize           int `yaml:"batch_size"`
}

func (d DispatcherConfig) Interval() time.Duration {
	return time.Duration(d.PollIntervalSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path when given, layers environment
// overrides on the result, and validates the outcome. An empty path
// yields defaults plus environment.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		ServiceName: "quorum",
		Gateway: GatewayConfig{
			URL: "http://localhost:8081",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Dispatcher: DispatcherConfig{
			PollIntervalSeconds: 2,
			BatchSize:           100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = envString("QUORUM_SERVICE_NAME", cfg.ServiceName)
	cfg.Gateway.URL = envString("QUORUM_GATEWAY_URL", cfg.Gateway.URL)
	cfg.Gateway.Token = envString("QUORUM_GATEWAY_TOKEN", cfg.Gateway.Token)
	cfg.Gateway.Admins = envInt64List("QUORUM_GATEWAY_ADMINS", cfg.Gateway.Admins)
	cfg.Database.DSN = envString("QUORUM_POSTGRES_DSN", cfg.Database.DSN)
	cfg.Server.Addr = envString("QUORUM_HTTP_ADDR", cfg.Server.Addr)
	cfg.Dispatcher.PollIntervalSeconds = envInt("QUORUM_DISPATCHER_POLL_INTERVAL", cfg.Dispatcher.PollIntervalSeconds)
	cfg.Dispatcher.BatchSize = envInt("QUORUM_DISPATCHER_BATCH_SIZE", cfg.Dispatcher.BatchSize)
	cfg.Log.Level = envString("QUORUM_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envString("QUORUM_LOG_FORMAT", cfg.Log.Format)
}

// Validate rejects shapes the process cannot run with. Credentials and
// the database DSN are checked later by the commands that need them.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Dispatcher.PollIntervalSeconds <= 0 {
		return fmt.Errorf("dispatcher poll interval must be positive, got %d", c.Dispatcher.PollIntervalSeconds)
	}
	if c.Dispatcher.BatchSize <= 0 {
		return fmt.Errorf("dispatcher batch size must be positive, got %d", c.Dispatcher.BatchSize)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func envString(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt64List(name string, fallback []int64) []int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	var values []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fallback
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
