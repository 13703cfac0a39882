// Package sagalog defines the checkout saga log.
//
// Every state transition of a checkout saga is appended as one row. The log
// answers "how far did checkout X get" and links each transition to its
// distributed trace through the trace_id field.
package sagalog

import "time"

// Status represents the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// SagaLog is a single row in the saga_logs table.
type SagaLog struct {
	// SagaID is the order ID, so the log joins with order data.
	SagaID string

	Status Status

	// CurrentStep is the name of the step that was just executed or failed.
	CurrentStep string

	// Payload is the JSON-serialised checkout input, written once on STARTED.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
