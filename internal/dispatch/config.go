package dispatch

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Sink kinds.
const (
	SinkHTTP = "http"
	SinkBlob = "blob"
)

// Config holds downstream delivery settings.
type Config struct {
	Sink           string `toml:"sink"`
	Endpoint       string `toml:"endpoint"`
	ConnectTimeout string `toml:"connect_timeout"`
	RequestTimeout string `toml:"request_timeout"`
	MaxConcurrent  int    `toml:"max_concurrent"`
}

// Env maps dispatch config fields to environment variable names.
type Env struct {
	Sink           string
	Endpoint       string
	ConnectTimeout string
	RequestTimeout string
	MaxConcurrent  string
}

// ConnectTimeoutDuration returns ConnectTimeout as a time.Duration.
func (c *Config) ConnectTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnectTimeout)
	return d
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Sink != "" {
		c.Sink = overlay.Sink
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ConnectTimeout != "" {
		c.ConnectTimeout = overlay.ConnectTimeout
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
}

func (c *Config) loadDefaults() {
	if c.Sink == "" {
		c.Sink = SinkHTTP
	}
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8090/hadoopserver/pushbigdata"
	}
	if c.ConnectTimeout == "" {
		c.ConnectTimeout = "5s"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "30s"
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 16
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Sink != "" {
		if v := os.Getenv(env.Sink); v != "" {
			c.Sink = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.ConnectTimeout != "" {
		if v := os.Getenv(env.ConnectTimeout); v != "" {
			c.ConnectTimeout = v
		}
	}
	if env.RequestTimeout != "" {
		if v := os.Getenv(env.RequestTimeout); v != "" {
			c.RequestTimeout = v
		}
	}
	if env.MaxConcurrent != "" {
		if v := os.Getenv(env.MaxConcurrent); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxConcurrent = n
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Sink {
	case SinkHTTP:
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint: %q", c.Endpoint)
		}
	case SinkBlob:
	default:
		return fmt.Errorf("unknown sink: %q", c.Sink)
	}

	connect, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("invalid connect_timeout: %w", err)
	}
	request, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if connect <= 0 || request <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1: %d", c.MaxConcurrent)
	}
	return nil
}
