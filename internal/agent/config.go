package agent

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

var providers = []string{ProviderOpenAI, ProviderAnthropic}

// Config holds language model connection parameters.
type Config struct {
	Provider     string   `toml:"provider"`
	Model        string   `toml:"model"`
	APIKey       string   `toml:"api_key"`
	BaseURL      string   `toml:"base_url"`
	SystemPrompt string   `toml:"system_prompt"`
	Temperature  *float64 `toml:"temperature"`
	MaxTokens    int      `toml:"max_tokens"`
	MaxRetries   int      `toml:"max_retries"`
	Timeout      string   `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature string
	MaxTokens   string
	Timeout     string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
// When no API key is configured, the provider's conventional key variable
// (OPENAI_API_KEY or ANTHROPIC_API_KEY) is used.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.loadProviderDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.SystemPrompt != "" {
		c.SystemPrompt = overlay.SystemPrompt
	}
	if overlay.Temperature != nil {
		t := *overlay.Temperature
		c.Temperature = &t
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Temperature == nil {
		t := 0.7
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if t, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = &t
			}
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) loadProviderDefaults() {
	switch c.Provider {
	case ProviderOpenAI:
		if c.Model == "" {
			c.Model = DefaultOpenAIModel
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case ProviderAnthropic:
		if c.Model == "" {
			c.Model = DefaultAnthropicModel
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature %v outside 0-2", *c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("invalid max_tokens: %d", c.MaxTokens)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
