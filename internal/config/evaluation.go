package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvEvaluationWorkers          = "TENDER_EVALUATION_WORKERS"
	EnvEvaluationMaxDocuments     = "TENDER_EVALUATION_MAX_DOCUMENTS"
	EnvEvaluationInstructionsFile = "TENDER_EVALUATION_INSTRUCTIONS_FILE"
)

// EvaluationConfig controls how a batch of tender documents is scored.
type EvaluationConfig struct {
	Workers          int    `toml:"workers"`
	MaxDocuments     int    `toml:"max_documents"`
	Instructions     string `toml:"instructions"`
	InstructionsFile string `toml:"instructions_file"`
}

// Finalize applies defaults, environment variable overrides, and validation.
// When InstructionsFile is set its contents replace Instructions.
func (c *EvaluationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	if err := c.validate(); err != nil {
		return err
	}

	if c.InstructionsFile != "" {
		data, err := os.ReadFile(c.InstructionsFile)
		if err != nil {
			return fmt.Errorf("instructions_file: %w", err)
		}
		c.Instructions = string(data)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *EvaluationConfig) Merge(overlay *EvaluationConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.MaxDocuments != 0 {
		c.MaxDocuments = overlay.MaxDocuments
	}
	if overlay.Instructions != "" {
		c.Instructions = overlay.Instructions
	}
	if overlay.InstructionsFile != "" {
		c.InstructionsFile = overlay.InstructionsFile
	}
}

func (c *EvaluationConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.MaxDocuments == 0 {
		c.MaxDocuments = 20
	}
}

func (c *EvaluationConfig) loadEnv() {
	if v := os.Getenv(EnvEvaluationWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvEvaluationMaxDocuments); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDocuments = n
		}
	}
	if v := os.Getenv(EnvEvaluationInstructionsFile); v != "" {
		c.InstructionsFile = v
	}
}

func (c *EvaluationConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	if c.MaxDocuments < 1 {
		return fmt.Errorf("invalid max_documents: %d", c.MaxDocuments)
	}
	return nil
}
