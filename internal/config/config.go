package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is absent from the config file
const (
	DefaultCacheTTLSeconds = 300 // 5 minutes
	DefaultCacheMaxEntries = 4096
	DefaultResultLimit     = 50
)

// Config holds server configuration
type Config struct {
	// DBPath is the SQLite database file. Empty means ~/.tasktrack/tasktrack.db.
	DBPath string `yaml:"db_path"`

	// CacheTTLSeconds is the lifetime of a cached search result set.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// CacheMaxEntries bounds the in-memory result cache.
	CacheMaxEntries int `yaml:"cache_max_entries"`

	// ResultLimit is the default number of search results returned.
	ResultLimit int `yaml:"result_limit"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// Default returns a config populated with default values
func Default() *Config {
	return &Config{
		CacheTTLSeconds: DefaultCacheTTLSeconds,
		CacheMaxEntries: DefaultCacheMaxEntries,
		ResultLimit:     DefaultResultLimit,
		LogLevel:        "info",
	}
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist. TASKTRACK_* environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveDBPath expands the configured database path, creating the parent
// directory if needed
func (c *Config) ResolveDBPath() (string, error) {
	dbPath := c.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tasktrack", "tasktrack.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}

	return dbPath, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TASKTRACK_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TASKTRACK_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("TASKTRACK_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheMaxEntries = n
		}
	}
	if v := os.Getenv("TASKTRACK_RESULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ResultLimit = n
		}
	}
	if v := os.Getenv("TASKTRACK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKTRACK_LOG_JSON"); v != "" {
		c.LogJSON = v == "1" || v == "true"
	}
}

func (c *Config) validate() error {
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache_ttl_seconds must be positive, got %d", c.CacheTTLSeconds)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache_max_entries must be positive, got %d", c.CacheMaxEntries)
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("result_limit must be positive, got %d", c.ResultLimit)
	}
	return nil
}
