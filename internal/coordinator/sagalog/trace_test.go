package sagalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestNewEntry_WithoutSpan(t *testing.T) {
	e := NewEntry(context.Background(), "order-1", StatusStarted, "", `{"a":1}`, nil)

	assert.Equal(t, "order-1", e.SagaID)
	assert.Equal(t, StatusStarted, e.Status)
	assert.Equal(t, "[]", e.ErrorMessages)
	assert.Empty(t, e.TraceID)
	assert.Empty(t, e.SpanID)
	assert.False(t, e.UpdatedAt.IsZero())
}

func TestNewEntry_WithSpan(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	e := NewEntry(ctx, "order-1", StatusFailed, "Payment_Charge_Step", "", []string{"declined"})
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", e.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", e.SpanID)
	assert.Equal(t, `["declined"]`, e.ErrorMessages)
}
