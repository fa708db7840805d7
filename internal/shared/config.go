package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Failure policies for the shorts aggregator.
const (
	PolicyFailFast = "fail_fast"
	PolicySkip     = "skip"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents the application configuration loaded from a TOML (or YAML) file.
type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	YouTube  YouTubeConfig  `toml:"youtube" yaml:"youtube"`
	Store    StoreConfig    `toml:"store" yaml:"store"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Redis    RedisConfig    `toml:"redis" yaml:"redis"`
	Postgres PostgresConfig `toml:"postgres" yaml:"postgres"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host" yaml:"host"`
	Port int    `toml:"port" yaml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// YouTubeConfig contains the video platform credentials and the channel registry.
type YouTubeConfig struct {
	APIKey            string        `toml:"api_key" yaml:"api_key"`
	Endpoint          string        `toml:"endpoint" yaml:"endpoint"`
	Channels          []string      `toml:"channels" yaml:"channels"`
	MaxResults        int64         `toml:"max_results" yaml:"max_results"`
	Query             string        `toml:"query" yaml:"query"`
	RequestTimeout    time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	Concurrency       int           `toml:"concurrency" yaml:"concurrency"`
	RequestsPerSecond float64       `toml:"requests_per_second" yaml:"requests_per_second"`
	MaxRetries        int           `toml:"max_retries" yaml:"max_retries"`
	FailurePolicy     string        `toml:"failure_policy" yaml:"failure_policy"`
}

// StoreConfig selects where playlists are persisted.
type StoreConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
	Key     string `toml:"key" yaml:"key"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" yaml:"path"`
	MaxOpenConns int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
}

// RedisConfig contains redis connection settings.
type RedisConfig struct {
	Address  string `toml:"address" yaml:"address"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// PostgresConfig contains the postgres connection string.
type PostgresConfig struct {
	URL string `toml:"url" yaml:"url"`
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults. Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
// Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides secrets and deployment settings from the environment.
//
// lookup is usually [os.LookupEnv]; tests pass a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := firstEnv(lookup, "STUDYHUB_YOUTUBE_API_KEY", "YOUTUBE_API_KEY"); ok {
		c.YouTube.APIKey = v
	}
	if v, ok := firstEnv(lookup, "STUDYHUB_PORT", "PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v, ok := firstEnv(lookup, "STUDYHUB_CHANNELS"); ok {
		c.YouTube.Channels = SplitList(v)
	}
}

// Validate checks the configuration for values the application cannot run with.
//
// The API key is not checked here: only commands that reach the video platform need it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if len(c.YouTube.Channels) == 0 {
		return fmt.Errorf("%w: youtube.channels must list at least one channel", ErrInvalidConfig)
	}
	if c.YouTube.MaxResults < 1 || c.YouTube.MaxResults > 50 {
		return fmt.Errorf("%w: youtube.max_results must be between 1 and 50", ErrInvalidConfig)
	}
	switch c.YouTube.FailurePolicy {
	case PolicyFailFast, PolicySkip:
	default:
		return fmt.Errorf("%w: unknown failure policy %q", ErrInvalidConfig, c.YouTube.FailurePolicy)
	}
	switch c.Store.Backend {
	case BackendSQLite, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("%w: store.key is empty", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstEnv(lookup func(string) (string, bool), names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := lookup(name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
