package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRemoteSourceURL is the spreadsheet script the scoreboard follows
// unless REMOTE_SOURCE_URL says otherwise.
const DefaultRemoteSourceURL = "https://script.google.com/macros/s/AKfycbyK0B901Wx5sq4AWvidmDVB993DM7B4kB5eomDwl_QjGAlqukWSCTK7aOyw65UDKEMo/exec"

// Storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type ServerConfig struct {
	Port      string `yaml:"port"`
	PublicDir string `yaml:"public_dir"`
}

type StoreConfig struct {
	Backend    string `yaml:"backend"`
	File       string `yaml:"file"`
	RedisURL   string `yaml:"redis_url"`
	RedisKey   string `yaml:"redis_key"`
	SQLitePath string `yaml:"sqlite_path"`
}

type RemoteConfig struct {
	URL       string `yaml:"url"`
	Disabled  bool   `yaml:"disabled"`
	PollMS    int    `yaml:"poll_ms"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds all service configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Remote RemoteConfig `yaml:"remote"`
	Log    LogConfig    `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "3000",
			PublicDir: "public",
		},
		Store: StoreConfig{
			Backend:    BackendFile,
			File:       "data/state.json",
			RedisURL:   "redis://localhost:6379/0",
			RedisKey:   "scoreboard:state",
			SQLitePath: "data/state.db",
		},
		Remote: RemoteConfig{
			URL:    DefaultRemoteSourceURL,
			PollMS: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.PublicDir = getEnv("PUBLIC_DIR", c.Server.PublicDir)

	c.Store.Backend = strings.ToLower(getEnv("STATE_BACKEND", c.Store.Backend))
	c.Store.File = getEnv("STATE_FILE", c.Store.File)
	c.Store.RedisURL = getEnv("REDIS_URL", c.Store.RedisURL)
	c.Store.RedisKey = getEnv("REDIS_KEY", c.Store.RedisKey)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)

	c.Remote.URL = getEnv("REMOTE_SOURCE_URL", c.Remote.URL)
	c.Remote.Disabled = getEnvAsBool("REMOTE_SYNC_DISABLED", c.Remote.Disabled)
	c.Remote.PollMS = getEnvAsInt("REMOTE_POLL_MS", c.Remote.PollMS)
	c.Remote.TimeoutMS = getEnvAsInt("REMOTE_TIMEOUT_MS", c.Remote.TimeoutMS)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown state backend %q", c.Store.Backend)
	}
	if c.Remote.PollMS <= 0 {
		return fmt.Errorf("remote poll interval must be positive, got %dms", c.Remote.PollMS)
	}
	if c.Remote.TimeoutMS < 0 {
		return fmt.Errorf("remote timeout must not be negative, got %dms", c.Remote.TimeoutMS)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Server.Port)
}

// RemoteSyncEnabled reports whether the poll loop should run.
func (c *Config) RemoteSyncEnabled() bool {
	return !c.Remote.Disabled && strings.TrimSpace(c.Remote.URL) != ""
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Remote.PollMS) * time.Millisecond
}

// RemoteTimeout bounds each remote sync cycle. Zero selects the poller default.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutMS) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
