package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator/sagalog"
)

// Step represents a single unit of work in the Saga.
// Each step must have a compensating action to undo its effects.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs Steps in order and records every transition in the saga
// log when a repository is configured.
type Orchestrator struct {
	sagaID  string
	payload string
	steps   []Step
	repo    sagalog.Repository // nil-safe
}

// NewOrchestrator builds a saga. repo may be nil, in which case transitions
// are only logged.
func NewOrchestrator(sagaID string, steps []Step, repo sagalog.Repository) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, steps: steps, repo: repo}
}

// WithPayload attaches the JSON input persisted with the STARTED entry.
func (o *Orchestrator) WithPayload(payload string) *Orchestrator {
	o.payload = payload
	return o
}

// Start runs the saga steps sequentially.
// If a step fails, it triggers the compensation of all previously successful
// steps in reverse order and returns the step error.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, sagalog.StatusStarted, "", o.payload, nil)

	var successfulSteps []Step
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing saga step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.WarnContext(ctx, "saga step failed, starting rollback", "saga_id", o.sagaID, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, sagalog.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, o.rollback(ctx, successfulSteps)...)
			o.record(ctx, sagalog.StatusFailed, step.Name(), "", errs)
			return err
		}
		successfulSteps = append(successfulSteps, step)
		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	slog.InfoContext(ctx, "saga completed", "saga_id", o.sagaID)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating saga step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate step", "saga_id", o.sagaID, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.repo == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.sagaID, status, step, payload, errs)
	if err := o.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write saga log", "saga_id", o.sagaID, "status", status, "error", err)
	}
}
