package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "TENDER_SERVER_HOST"
	EnvServerPort              = "TENDER_SERVER_PORT"
	EnvServerReadTimeout       = "TENDER_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "TENDER_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "TENDER_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "TENDER_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "TENDER_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP server parameters. WriteTimeout bounds a whole
// evaluation request, so it defaults well above a typical API server.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return duration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return duration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return duration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return duration(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.timeouts(overlay) {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

type timeoutField struct {
	name string
	env  string
	dst  *string
	src  *string
}

// timeouts pairs each duration field with its key and env var. When other is
// non-nil, src points at the matching field on other.
func (c *ServerConfig) timeouts(other *ServerConfig) []timeoutField {
	fields := []timeoutField{
		{name: "read_timeout", env: EnvServerReadTimeout, dst: &c.ReadTimeout},
		{name: "read_header_timeout", env: EnvServerReadHeaderTimeout, dst: &c.ReadHeaderTimeout},
		{name: "write_timeout", env: EnvServerWriteTimeout, dst: &c.WriteTimeout},
		{name: "idle_timeout", env: EnvServerIdleTimeout, dst: &c.IdleTimeout},
		{name: "shutdown_timeout", env: EnvServerShutdownTimeout, dst: &c.ShutdownTimeout},
	}
	if other != nil {
		srcs := []*string{&other.ReadTimeout, &other.ReadHeaderTimeout, &other.WriteTimeout, &other.IdleTimeout, &other.ShutdownTimeout}
		for i := range fields {
			fields[i].src = srcs[i]
		}
	}
	return fields
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}

	defaults := map[string]string{
		"read_timeout":        "2m",
		"read_header_timeout": "10s",
		"write_timeout":       "30m",
		"idle_timeout":        "2m",
		"shutdown_timeout":    "30s",
	}
	for _, f := range c.timeouts(nil) {
		if *f.dst == "" {
			*f.dst = defaults[f.name]
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.timeouts(nil) {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.timeouts(nil) {
		if _, err := time.ParseDuration(*f.dst); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
