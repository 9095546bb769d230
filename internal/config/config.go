package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTenderEnv             = "TENDER_ENV"
	EnvTenderShutdownTimeout = "TENDER_SHUTDOWN_TIMEOUT"
	EnvTenderVersion         = "TENDER_VERSION"
)

var storageEnv = &storage.Env{
	Provider:         "TENDER_STORAGE_PROVIDER",
	ContainerName:    "TENDER_STORAGE_CONTAINER_NAME",
	ConnectionString: "TENDER_STORAGE_CONNECTION_STRING",
	RootDir:          "TENDER_STORAGE_ROOT_DIR",
	MaxListSize:      "TENDER_STORAGE_MAX_LIST_SIZE",
}

var agentEnv = &agent.Env{
	Provider:    "TENDER_AGENT_PROVIDER",
	Model:       "TENDER_AGENT_MODEL",
	APIKey:      "TENDER_AGENT_API_KEY",
	BaseURL:     "TENDER_AGENT_BASE_URL",
	Temperature: "TENDER_AGENT_TEMPERATURE",
	MaxTokens:   "TENDER_AGENT_MAX_TOKENS",
	Timeout:     "TENDER_AGENT_TIMEOUT",
}

// Config is the root configuration for the tender evaluation service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Storage         storage.Config   `toml:"storage"`
	Agent           agent.Config     `toml:"agent"`
	API             APIConfig        `toml:"api"`
	Redaction       RedactionConfig  `toml:"redaction"`
	Evaluation      EvaluationConfig `toml:"evaluation"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TENDER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTenderEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml from the working directory (if present), applies
// the TENDER_ENV overlay, and finalizes every section.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load rooted at dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
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
	c.Storage.Merge(&overlay.Storage)
	c.Agent.Merge(&overlay.Agent)
	c.API.Merge(&overlay.API)
	c.Redaction.Merge(&overlay.Redaction)
	c.Evaluation.Merge(&overlay.Evaluation)
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
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Agent.Finalize(agentEnv); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Redaction.Finalize(); err != nil {
		return fmt.Errorf("redaction: %w", err)
	}
	if err := c.Evaluation.Finalize(); err != nil {
		return fmt.Errorf("evaluation: %w", err)
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
	if v := os.Getenv(EnvTenderShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTenderVersion); v != "" {
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

func overlayPath(dir string) string {
	if env := os.Getenv(EnvTenderEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
