package api

import (
	"github.com/AndrewDilley/TenderEvaluation/internal/config"
	"github.com/AndrewDilley/TenderEvaluation/internal/infrastructure"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

// Runtime extends Infrastructure with the evaluation workflow runtime.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := &infrastructure.Infrastructure{
		Lifecycle: infra.Lifecycle,
		Logger:    infra.Logger.With("module", "api"),
		Storage:   infra.Storage,
		Agent:     infra.Agent,
		Redactor:  infra.Redactor,
		Metrics:   infra.Metrics,
	}

	return &Runtime{
		Infrastructure: scoped,
		Workflow:       scoped.Workflow(&cfg.Evaluation),
	}
}
