package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvRedactionExclusions = "TENDER_REDACTION_EXCLUSIONS"
	EnvRedactionRulesFile  = "TENDER_REDACTION_RULES_FILE"
)

// DefaultExclusions are the evaluating organization's own names, which stay
// visible in redacted text.
var DefaultExclusions = []string{
	"Wannon Water",
	"WW",
	"Wannon Region Water Corporation",
}

// RedactionConfig holds the standing exclusion list and an optional YAML
// file of custom rules.
type RedactionConfig struct {
	Exclusions []string `toml:"exclusions"`
	RulesFile  string   `toml:"rules_file"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RedactionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RedactionConfig) Merge(overlay *RedactionConfig) {
	if overlay.Exclusions != nil {
		c.Exclusions = overlay.Exclusions
	}
	if overlay.RulesFile != "" {
		c.RulesFile = overlay.RulesFile
	}
}

// An explicitly empty list in config disables the defaults.
func (c *RedactionConfig) loadDefaults() {
	if c.Exclusions == nil {
		c.Exclusions = append([]string(nil), DefaultExclusions...)
	}
}

func (c *RedactionConfig) loadEnv() {
	if v, ok := os.LookupEnv(EnvRedactionExclusions); ok {
		c.Exclusions = splitEnvList(v)
	}
	if v := os.Getenv(EnvRedactionRulesFile); v != "" {
		c.RulesFile = v
	}
}

func (c *RedactionConfig) validate() error {
	if c.RulesFile == "" {
		return nil
	}
	info, err := os.Stat(c.RulesFile)
	if err != nil {
		return fmt.Errorf("rules_file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("rules_file %s is a directory", c.RulesFile)
	}
	return nil
}

func splitEnvList(v string) []string {
	items := []string{}
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
