package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/dataserver/pkg/formatting"
	"github.com/JaimeStill/dataserver/pkg/middleware"
)

const (
	EnvAPIBasePath        = "DATASERVER_API_BASE_PATH"
	EnvAPIMaxEnvelopeSize = "DATASERVER_API_MAX_ENVELOPE_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DATASERVER_CORS_ENABLED",
	Origins:          "DATASERVER_CORS_ORIGINS",
	AllowedMethods:   "DATASERVER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DATASERVER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "DATASERVER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DATASERVER_CORS_MAX_AGE",
}

// APIConfig holds API routing, request size, and CORS settings.
type APIConfig struct {
	BasePath        string                `toml:"base_path"`
	MaxEnvelopeSize string                `toml:"max_envelope_size"`
	CORS            middleware.CORSConfig `toml:"cors"`
}

// MaxEnvelopeSizeBytes returns MaxEnvelopeSize as a byte count.
func (c *APIConfig) MaxEnvelopeSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxEnvelopeSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxEnvelopeSize != "" {
		c.MaxEnvelopeSize = overlay.MaxEnvelopeSize
	}
	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxEnvelopeSize == "" {
		c.MaxEnvelopeSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxEnvelopeSize); v != "" {
		c.MaxEnvelopeSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path: %q", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxEnvelopeSize)
	if err != nil {
		return fmt.Errorf("invalid max_envelope_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_envelope_size must be positive")
	}
	return nil
}
