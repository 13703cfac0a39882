package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator/sagalog"
)

type recordingStep struct {
	name     string
	failExec error
	failComp error
	journal  *[]string
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Execute(context.Context) error {
	*s.journal = append(*s.journal, "exec:"+s.name)
	return s.failExec
}

func (s *recordingStep) Compensate(context.Context) error {
	*s.journal = append(*s.journal, "comp:"+s.name)
	return s.failComp
}

type memRepo struct {
	mu      sync.Mutex
	entries []sagalog.SagaLog
}

func (r *memRepo) Save(_ context.Context, e *sagalog.SagaLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memRepo) statuses() []sagalog.Status {
	var out []sagalog.Status
	for _, e := range r.entries {
		out = append(out, e.Status)
	}
	return out
}

func TestOrchestrator_AllStepsSucceed(t *testing.T) {
	var journal []string
	repo := &memRepo{}
	steps := []Step{
		&recordingStep{name: "a", journal: &journal},
		&recordingStep{name: "b", journal: &journal},
	}

	err := NewOrchestrator("order-1", steps, repo).WithPayload(`{}`).Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"exec:a", "exec:b"}, journal)
	assert.Equal(t, []sagalog.Status{
		sagalog.StatusStarted, sagalog.StatusStepDone, sagalog.StatusStepDone, sagalog.StatusCompleted,
	}, repo.statuses())
	assert.Equal(t, `{}`, repo.entries[0].Payload)
	assert.Equal(t, "order-1", repo.entries[0].SagaID)
}

func TestOrchestrator_FailureCompensatesInReverse(t *testing.T) {
	var journal []string
	repo := &memRepo{}
	boom := errors.New("boom")
	steps := []Step{
		&recordingStep{name: "a", journal: &journal},
		&recordingStep{name: "b", journal: &journal},
		&recordingStep{name: "c", journal: &journal, failExec: boom},
		&recordingStep{name: "d", journal: &journal},
	}

	err := NewOrchestrator("order-1", steps, repo).Start(context.Background())
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"exec:a", "exec:b", "exec:c", "comp:b", "comp:a"}, journal)
	statuses := repo.statuses()
	assert.Equal(t, sagalog.StatusFailed, statuses[len(statuses)-1])
	assert.Equal(t, "c", repo.entries[len(repo.entries)-1].CurrentStep)
}

func TestOrchestrator_CompensationErrorsAreRecorded(t *testing.T) {
	var journal []string
	repo := &memRepo{}
	steps := []Step{
		&recordingStep{name: "a", journal: &journal, failComp: errors.New("stuck")},
		&recordingStep{name: "b", journal: &journal, failExec: errors.New("boom")},
	}

	err := NewOrchestrator("order-1", steps, repo).Start(context.Background())
	require.Error(t, err)

	last := repo.entries[len(repo.entries)-1]
	assert.Contains(t, last.ErrorMessages, "compensation of a failed: stuck")
	assert.Contains(t, last.ErrorMessages, "step b failed: boom")
}

func TestOrchestrator_NilRepository(t *testing.T) {
	var journal []string
	steps := []Step{&recordingStep{name: "a", journal: &journal}}

	require.NoError(t, NewOrchestrator("order-1", steps, nil).Start(context.Background()))
	assert.Equal(t, []string{"exec:a"}, journal)
}
