package workflow

import (
	"log/slog"
	"runtime"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/internal/redaction"
	"github.com/AndrewDilley/TenderEvaluation/pkg/metrics"
	"github.com/AndrewDilley/TenderEvaluation/pkg/storage"
)

// Runtime bundles the dependencies that an evaluation requires.
// It is constructed by higher-level composition code from Infrastructure
// and configuration. Storage and Metrics are optional.
type Runtime struct {
	Agent        agent.Client
	Storage      storage.System
	Redactor     *redaction.Redactor
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	Instructions string
	System       string
	Workers      int
	MaxDocuments int
}

func (rt *Runtime) redactor() *redaction.Redactor {
	if rt.Redactor == nil {
		return redaction.New(nil, nil)
	}
	return rt.Redactor
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger == nil {
		return slog.Default()
	}
	return rt.Logger
}

// workerCount bounds the scoring fan-out by the configured worker count,
// the number of documents, and the available CPUs. Zero workers means
// sequential scoring.
func workerCount(workers, documents int) int {
	return max(min(workers, documents, runtime.NumCPU()), 1)
}
