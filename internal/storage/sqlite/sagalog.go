package sqlite

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator/sagalog"
)

var (
	_ sagalog.Repository = (*Store)(nil)
	_ sagalog.Reader     = (*Store)(nil)
)

// Save appends a checkout saga log entry.
func (s *Store) Save(ctx context.Context, entry *sagalog.SagaLog) error {
	const q = `
		INSERT INTO saga_logs
			(saga_id, status, current_step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		entry.SagaID,
		string(entry.Status),
		entry.CurrentStep,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save saga log for %q: %w", entry.SagaID, err)
	}
	return nil
}

// History returns every log entry of a saga in write order.
func (s *Store) History(ctx context.Context, sagaID string) ([]sagalog.SagaLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT saga_id, status, current_step, COALESCE(payload,''), error_messages,
		       trace_id, span_id, updated_at
		FROM saga_logs WHERE saga_id = ? ORDER BY id`, sagaID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", sagaID, err)
	}
	defer rows.Close()

	var out []sagalog.SagaLog
	for rows.Next() {
		var e sagalog.SagaLog
		var updatedAt string
		if err := rows.Scan(&e.SagaID, &e.Status, &e.CurrentStep, &e.Payload, &e.ErrorMessages,
			&e.TraceID, &e.SpanID, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan saga log: %w", err)
		}
		if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
