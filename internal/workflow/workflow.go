// Package workflow runs an evaluation batch end to end: rubric parsing,
// text extraction, redaction, per-document scoring by the language model,
// and aggregation of the returned records into summary tables.
package workflow

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AndrewDilley/TenderEvaluation/internal/agent"
	"github.com/AndrewDilley/TenderEvaluation/internal/criteria"
	"github.com/AndrewDilley/TenderEvaluation/internal/prompts"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
	"github.com/AndrewDilley/TenderEvaluation/pkg/metrics"
)

// Batch is one evaluation request: a rubric and the documents to score.
// Exclusions add organization names to protect from the name rule for this
// batch only. Instructions, when set, replace the configured evaluator
// instructions.
type Batch struct {
	Rubric       Upload
	Documents    []Upload
	Exclusions   []string
	Instructions string
}

// Report is the model's narrative output for one document.
type Report struct {
	Document     string `json:"document"`
	Filename     string `json:"filename"`
	Fragment     string `json:"fragment"`
	RedactedKey  string `json:"redacted_key,omitempty"`
	Records      int    `json:"records"`
	InputTokens  int64  `json:"input_tokens,omitempty"`
	OutputTokens int64  `json:"output_tokens,omitempty"`
}

// Result is the outcome of a completed evaluation batch.
type Result struct {
	SessionID   uuid.UUID        `json:"session_id"`
	Criteria    *criteria.Model  `json:"criteria"`
	Summary     *scoring.Summary `json:"summary"`
	Reports     []Report         `json:"reports"`
	Documents   []Prepared       `json:"-"`
	Warnings    []string         `json:"warnings"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
}

type scored struct {
	report  Report
	records []scoring.Record
}

// Execute runs an evaluation batch. Documents are scored concurrently up to
// the configured worker count; aggregation waits for every document. Any
// document failure, including a malformed response, aborts the batch.
func Execute(ctx context.Context, rt *Runtime, batch Batch) (*Result, error) {
	if len(batch.Documents) == 0 {
		return nil, ErrEmptyBatch
	}

	session := NewSession(batch.Exclusions...)
	logger := rt.logger().With("session", session.ID)

	result, err := execute(ctx, rt, session, batch)
	if err != nil {
		rt.Metrics.Evaluated(metrics.OutcomeFailure)
		logger.ErrorContext(ctx, "evaluation failed", "error", err)
		return nil, err
	}

	rt.Metrics.Evaluated(metrics.OutcomeSuccess)
	logger.InfoContext(
		ctx, "evaluation complete",
		"documents", len(result.Reports),
		"warnings", len(result.Warnings),
		"duration", result.CompletedAt.Sub(result.StartedAt),
	)

	return result, nil
}

func execute(ctx context.Context, rt *Runtime, session *Session, batch Batch) (*Result, error) {
	model, err := criteria.Load(batch.Rubric.Filename, bytes.NewReader(batch.Rubric.Data))
	if err != nil {
		return nil, err
	}

	docs, err := Prepare(ctx, rt, session, batch.Documents)
	if err != nil {
		return nil, err
	}

	instructions := batch.Instructions
	if instructions == "" {
		instructions = rt.Instructions
	}

	outcomes := make([]scored, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(rt.Workers, len(docs)))

	for i := range docs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			out, err := score(gctx, rt, session, model, instructions, docs[i])
			if err != nil {
				return err
			}

			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []scoring.Record
	reports := make([]Report, 0, len(outcomes))
	for _, out := range outcomes {
		records = append(records, out.records...)
		reports = append(reports, out.report)
	}

	reconciled, unmatched := scoring.Reconcile(records, model)

	warnings := append([]string{}, model.Warnings...)
	warnings = append(warnings, unmatched...)

	return &Result{
		SessionID:   session.ID,
		Criteria:    model,
		Summary:     scoring.Aggregate(reconciled, model),
		Reports:     reports,
		Documents:   docs,
		Warnings:    warnings,
		StartedAt:   session.StartedAt,
		CompletedAt: time.Now().UTC(),
	}, nil
}

func score(
	ctx context.Context,
	rt *Runtime,
	session *Session,
	model *criteria.Model,
	instructions string,
	doc Prepared,
) (scored, error) {
	system := rt.System
	if system == "" {
		system = prompts.System()
	}

	start := time.Now()
	resp, err := rt.Agent.Complete(ctx, agent.Request{
		System: system,
		Prompt: prompts.Compose(instructions, model, doc.Document, doc.Text),
	})
	if err != nil {
		return scored{}, fmt.Errorf("%w: %s: %w", ErrScoringFailed, doc.Document, err)
	}
	elapsed := time.Since(start)
	rt.Metrics.Scored(elapsed)

	fragment, records, err := scoring.ParseResponse(resp.Content, doc.Document)
	if err != nil {
		return scored{}, err
	}

	rt.logger().InfoContext(
		ctx, "document scored",
		"session", session.ID,
		"document", doc.Document,
		"records", len(records),
		"model", resp.Model,
		"duration", elapsed,
	)

	return scored{
		report: Report{
			Document:     doc.Document,
			Filename:     doc.Filename,
			Fragment:     fragment,
			RedactedKey:  doc.RedactedKey,
			Records:      len(records),
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
		},
		records: records,
	}, nil
}
