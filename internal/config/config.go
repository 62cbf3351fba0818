// Package config loads service configuration from TOML files and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/dataserver/internal/dispatch"
	"github.com/JaimeStill/dataserver/pkg/database"
	"github.com/JaimeStill/dataserver/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDataserverEnv             = "DATASERVER_ENV"
	EnvDataserverShutdownTimeout = "DATASERVER_SHUTDOWN_TIMEOUT"
	EnvDataserverVersion         = "DATASERVER_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "DATASERVER_DB_HOST",
	Port:            "DATASERVER_DB_PORT",
	Name:            "DATASERVER_DB_NAME",
	User:            "DATASERVER_DB_USER",
	Password:        "DATASERVER_DB_PASSWORD",
	SSLMode:         "DATASERVER_DB_SSL_MODE",
	MaxOpenConns:    "DATASERVER_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATASERVER_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATASERVER_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATASERVER_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "DATASERVER_STORAGE_CONTAINER_NAME",
	ConnectionString: "DATASERVER_STORAGE_CONNECTION_STRING",
	AccountURL:       "DATASERVER_STORAGE_ACCOUNT_URL",
	KeyPrefix:        "DATASERVER_STORAGE_KEY_PREFIX",
}

var dispatchEnv = &dispatch.Env{
	Sink:           "DATASERVER_DISPATCH_SINK",
	Endpoint:       "DATASERVER_DISPATCH_ENDPOINT",
	ConnectTimeout: "DATASERVER_DISPATCH_CONNECT_TIMEOUT",
	RequestTimeout: "DATASERVER_DISPATCH_REQUEST_TIMEOUT",
	MaxConcurrent:  "DATASERVER_DISPATCH_MAX_CONCURRENT",
}

// Config is the root configuration for the data server.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Dispatch        dispatch.Config `toml:"dispatch"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the DATASERVER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDataserverEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// StorageEnabled reports whether the storage section is in use.
func (c *Config) StorageEnabled() bool {
	return c.Dispatch.Sink == dispatch.SinkBlob
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Without a config.toml, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Dispatch.Merge(&overlay.Dispatch)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Dispatch.Finalize(dispatchEnv); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if c.StorageEnabled() {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDataserverShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDataserverVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDataserverEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
