// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, storage, language model
// client, redactor, metrics) that the evaluation workflow requires.
package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/prompts"
	"github.com/AndrewDilley/TenderEvaluation/internal/redaction"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
	"github.com/AndrewDilley/TenderEvaluation/pkg/lifecycle"
	"github.com/AndrewDilley/TenderEvaluation/pkg/metrics"
	"github.com/AndrewDilley/TenderEvaluation/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Agent is nil when no API key is configured; redaction and rubric parsing
// still work without it.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Agent     agent.Client
	Redactor  *redaction.Redactor
	Metrics   *metrics.Metrics

	storageReady atomic.Bool
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	client, err := agent.New(&cfg.Agent)
	switch {
	case errors.Is(err, agent.ErrMissingAPIKey):
		logger.Warn("agent disabled", "provider", cfg.Agent.Provider, "error", err)
		client = nil
	case err != nil:
		return nil, fmt.Errorf("agent init failed: %w", err)
	}

	redactor, err := NewRedactor(&cfg.Redaction)
	if err != nil {
		return nil, fmt.Errorf("redaction init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Storage:   store,
		Agent:     client,
		Redactor:  redactor,
		Metrics:   metrics.New(),
	}, nil
}

// NewRedactor builds a Redactor from the configured exclusions and the
// optional custom rules file. Exclusions listed in the rules file are added
// to the configured ones.
func NewRedactor(cfg *config.RedactionConfig) (*redaction.Redactor, error) {
	exclusions := redaction.NewExclusionSet(cfg.Exclusions...)
	if cfg.RulesFile == "" {
		return redaction.New(nil, exclusions), nil
	}

	rules, extra, err := redaction.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return redaction.New(rules, exclusions.With(extra...)), nil
}

// Workflow returns the evaluation runtime backed by this infrastructure.
// Empty configured instructions fall back to the built-in evaluator
// instructions.
func (i *Infrastructure) Workflow(cfg *config.EvaluationConfig) *workflow.Runtime {
	instructions := cfg.Instructions
	if instructions == "" {
		instructions = prompts.Instructions()
	}

	return &workflow.Runtime{
		Agent:        i.Agent,
		Storage:      i.Storage,
		Redactor:     i.Redactor,
		Metrics:      i.Metrics,
		Logger:       i.Logger.With("system", "workflow"),
		Instructions: instructions,
		Workers:      cfg.Workers,
		MaxDocuments: cfg.MaxDocuments,
	}
}

// Start starts storage and registers the readiness checks reported by
// the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	i.storageReady.Store(true)

	i.Lifecycle.Check("storage", lifecycle.ReadinessFunc(i.storageReady.Load))
	i.Lifecycle.Check("agent", lifecycle.ReadinessFunc(func() bool {
		return i.Agent != nil
	}))
	return nil
}
