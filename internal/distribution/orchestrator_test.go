package distribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"choreflow/internal/oracle"
	"choreflow/internal/store"
	"choreflow/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go.opencensus.io starts a background worker in package init
		// (linked in transitively); it is not a leak in this package.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// fakeStore is an in-memory EntityStore.
type fakeStore struct {
	persons     []types.Person
	tasks       []types.Task
	assignments []types.Assignment
	clearCalls  int
	createErr   error
}

func (f *fakeStore) ListPersons() ([]types.Person, error) { return f.persons, nil }
func (f *fakeStore) ListActiveTasks() ([]types.Task, error) { return f.tasks, nil }

func (f *fakeStore) CreateAssignment(a types.Assignment) (types.Assignment, error) {
	if f.createErr != nil {
		return types.Assignment{}, f.createErr
	}
	a.ID = uuid.NewString()
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeStore) DeleteAllAssignments() error {
	f.clearCalls++
	f.assignments = nil
	return nil
}

func (f *fakeStore) FindAssignments(filter store.AssignmentFilter) ([]types.Assignment, error) {
	durations := make(map[string]int, len(f.tasks))
	for _, t := range f.tasks {
		durations[t.ID] = t.Duration
	}
	var out []types.Assignment
	for _, a := range f.assignments {
		if filter.PersonID != "" && a.PersonID != filter.PersonID {
			continue
		}
		if filter.From != "" && a.Date < filter.From {
			continue
		}
		if filter.To != "" && a.Date > filter.To {
			continue
		}
		a.TaskDuration = durations[a.TaskID]
		out = append(out, a)
	}
	return out, nil
}

// fakeGen scripts per-call distributions.
type fakeGen struct {
	calls int
	reqs  []oracle.Request
	fn    func(call int, req oracle.Request) (*types.Distribution, error)
}

func (f *fakeGen) DistributeTasks(ctx context.Context, req oracle.Request) (*types.Distribution, error) {
	f.calls++
	f.reqs = append(f.reqs, req)
	return f.fn(f.calls, req)
}

func (f *fakeGen) Model() string { return "fake-model" }

func household(personCount, taskCount int) *fakeStore {
	f := &fakeStore{}
	for i := 0; i < personCount; i++ {
		f.persons = append(f.persons, types.Person{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Person %d", i+1),
		})
	}
	for i := 0; i < taskCount; i++ {
		f.tasks = append(f.tasks, types.Task{
			ID:       fmt.Sprintf("t%d", i+1),
			Name:     fmt.Sprintf("Task %d", i+1),
			Duration: 10,
			Active:   true,
		})
	}
	return f
}

func TestRedistributeValidation(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeStore
		start   string
		end     string
		wantMsg string
	}{
		{"inverted dates", household(2, 2), "2025-01-10", "2025-01-01", "after end date"},
		{"no persons", household(0, 2), "2025-01-01", "2025-01-10", "no persons"},
		{"no active tasks", household(2, 0), "2025-01-01", "2025-01-10", "no active tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGen{fn: func(int, oracle.Request) (*types.Distribution, error) {
				return &types.Distribution{}, nil
			}}
			o := NewOrchestrator(tt.store, gen, nil)

			_, err := o.Redistribute(context.Background(), date(t, tt.start), date(t, tt.end))
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Zero(t, gen.calls, "backend must not be called on validation failure")
			assert.Zero(t, tt.store.clearCalls, "store must not be modified on validation failure")
		})
	}
}

func TestRedistributeFiltersUnknownReferences(t *testing.T) {
	st := household(1, 1)
	gen := &fakeGen{fn: func(int, oracle.Request) (*types.Distribution, error) {
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
			{TaskID: "invented-task", PersonID: "p1", Date: "2025-01-01"},
			{TaskID: "t1", PersonID: "invented-person", Date: "2025-01-01"},
			{TaskID: "t1", PersonID: "p1", Date: ""},
			{TaskID: "t1", PersonID: "p1", Date: "2025-01-02"},
		}}, nil
	}}
	o := NewOrchestrator(st, gen, nil)

	result, err := o.Redistribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.AssignmentsCreated)
	assert.Equal(t, 3, result.RowsSkipped)
	assert.Len(t, st.assignments, 2)
}

func TestRedistributeStoreErrorSkipsRow(t *testing.T) {
	st := household(1, 1)
	st.createErr = errors.New("disk full")
	gen := &fakeGen{fn: func(int, oracle.Request) (*types.Distribution, error) {
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
		}}, nil
	}}
	o := NewOrchestrator(st, gen, nil)

	result, err := o.Redistribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-01"))
	require.NoError(t, err, "a failing row must not sink the run")
	assert.Zero(t, result.AssignmentsCreated)
	assert.Equal(t, 1, result.RowsSkipped)
}

func TestRedistributeChunkFailureKeepsEarlierChunks(t *testing.T) {
	// 85 tasks forces one-day chunks: five days, five chunks.
	st := household(2, 85)
	gen := &fakeGen{fn: func(call int, req oracle.Request) (*types.Distribution, error) {
		if call == 3 {
			return nil, fmt.Errorf("%w: backend kept timing out", oracle.ErrGeneration)
		}
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: req.ChunkStart.Format(types.DateLayout)},
		}}, nil
	}}
	o := NewOrchestrator(st, gen, nil)

	result, err := o.Redistribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-05"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 3/5")
	assert.ErrorIs(t, err, oracle.ErrGeneration)

	assert.Equal(t, 3, gen.calls, "run must stop at the failed chunk")
	assert.Equal(t, 2, result.ChunksCompleted)
	assert.Equal(t, 5, result.ChunksTotal)
	assert.Equal(t, 2, result.AssignmentsCreated)
	assert.Len(t, st.assignments, 2, "chunks persisted before the failure must survive")
	assert.Equal(t, "2025-01-01", st.assignments[0].Date)
	assert.Equal(t, "2025-01-02", st.assignments[1].Date)
}

func TestRedistributeChunksSequentialAndImmediatelyPersisted(t *testing.T) {
	st := household(1, 1)
	var seen []int
	gen := &fakeGen{}
	gen.fn = func(call int, req oracle.Request) (*types.Distribution, error) {
		// Every previous chunk must already be in the store when the next
		// generation starts.
		seen = append(seen, len(st.assignments))
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: req.ChunkStart.Format(types.DateLayout)},
		}}, nil
	}
	o := NewOrchestrator(st, gen, nil)

	result, err := o.Redistribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-14"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ChunksTotal)
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, 2, result.AssignmentsCreated)
}

func TestRedistributeProgressEvents(t *testing.T) {
	st := household(1, 1)
	gen := &fakeGen{fn: func(_ int, req oracle.Request) (*types.Distribution, error) {
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: req.ChunkStart.Format(types.DateLayout)},
		}}, nil
	}}

	var states []ProgressState
	o := NewOrchestrator(st, gen, func(ev ProgressEvent) {
		states = append(states, ev.State)
	})

	_, err := o.Redistribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-10"))
	require.NoError(t, err)
	assert.Equal(t, []ProgressState{
		StatePlanning,
		StateRunningChunk, StatePersisted,
		StateRunningChunk, StatePersisted,
		StateDone,
	}, states)
}

func TestDistributeSingleChunk(t *testing.T) {
	st := household(1, 1)
	st.assignments = []types.Assignment{{ID: "old", TaskID: "t1", PersonID: "p1", Date: "2024-12-01"}}
	gen := &fakeGen{fn: func(_ int, req oracle.Request) (*types.Distribution, error) {
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
		}}, nil
	}}
	o := NewOrchestrator(st, gen, nil)

	result, err := o.Distribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-31"), false)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls, "distribute must not chunk")
	assert.Equal(t, 1, result.AssignmentsCreated)
	assert.Len(t, st.assignments, 2, "existing assignments stay without clearFirst")

	result, err = o.Distribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-31"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AssignmentsCreated)
	assert.Len(t, st.assignments, 1, "clearFirst must wipe the previous schedule")
}

func TestDistributeRequestCarriesSnapshot(t *testing.T) {
	st := household(3, 4)
	gen := &fakeGen{fn: func(int, oracle.Request) (*types.Distribution, error) {
		return &types.Distribution{}, nil
	}}
	o := NewOrchestrator(st, gen, nil)

	_, err := o.Distribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-07"), false)
	require.NoError(t, err)
	require.Len(t, gen.reqs, 1)
	assert.Len(t, gen.reqs[0].Persons, 3)
	assert.Len(t, gen.reqs[0].Tasks, 4)
	assert.True(t, gen.reqs[0].ChunkStart.Equal(date(t, "2025-01-01")))
	assert.True(t, gen.reqs[0].ChunkEnd.Equal(date(t, "2025-01-07")))
}

func TestRedistributeCancelledContext(t *testing.T) {
	st := household(1, 1)
	gen := &fakeGen{fn: func(int, oracle.Request) (*types.Distribution, error) {
		return nil, context.Canceled
	}}
	o := NewOrchestrator(st, gen, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Redistribute(ctx, date(t, "2025-01-01"), date(t, "2025-01-07"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "cancel"))
}
