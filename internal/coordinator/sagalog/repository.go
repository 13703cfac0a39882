package sagalog

import "context"

// Repository persists saga log entries. The table is append-only.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader returns the entries of one saga in write order.
type Reader interface {
	History(ctx context.Context, sagaID string) ([]SagaLog, error)
}
