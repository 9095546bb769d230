// Package evaluations exposes the evaluation workflow over HTTP: full
// evaluations, redaction previews, and rubric previews.
package evaluations

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
	"github.com/AndrewDilley/TenderEvaluation/internal/workflow"
)

// System runs evaluation operations.
type System interface {
	Evaluate(ctx context.Context, batch workflow.Batch) (*workflow.Result, error)
	Redact(ctx context.Context, exclusions []string, uploads []workflow.Upload) (*Redaction, error)
	Criteria(rubric workflow.Upload) (*criteria.Model, error)
	Handler(maxUploadSize int64) *Handler
}

// Redaction is the result of a redaction preview.
type Redaction struct {
	SessionID uuid.UUID           `json:"session_id"`
	Documents []workflow.Prepared `json:"documents"`
}

type evaluationSystem struct {
	rt     *workflow.Runtime
	logger *slog.Logger
}

// New creates an evaluation System over a workflow runtime.
func New(rt *workflow.Runtime, logger *slog.Logger) System {
	return &evaluationSystem{
		rt:     rt,
		logger: logger.With("system", "evaluations"),
	}
}

func (s *evaluationSystem) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *evaluationSystem) Evaluate(ctx context.Context, batch workflow.Batch) (*workflow.Result, error) {
	if s.rt.Agent == nil {
		return nil, ErrAgentUnavailable
	}
	return workflow.Execute(ctx, s.rt, batch)
}

// Redact extracts, redacts, and stages uploads without calling the
// language model.
func (s *evaluationSystem) Redact(ctx context.Context, exclusions []string, uploads []workflow.Upload) (*Redaction, error) {
	session := workflow.NewSession(exclusions...)

	docs, err := workflow.Prepare(ctx, s.rt, session, uploads)
	if err != nil {
		return nil, err
	}

	return &Redaction{SessionID: session.ID, Documents: docs}, nil
}

func (s *evaluationSystem) Criteria(rubric workflow.Upload) (*criteria.Model, error) {
	return criteria.Load(rubric.Filename, bytes.NewReader(rubric.Data))
}
