package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"choreflow/internal/oracle"
	"choreflow/internal/types"
)

func TestBalanceZeroPersonsUndefined(t *testing.T) {
	e := NewEvaluator(household(0, 0))

	report, err := e.Balance(date(t, "2025-01-01"), date(t, "2025-01-07"))
	require.NoError(t, err)
	assert.True(t, report.Undefined)
	assert.Empty(t, report.Persons)
	assert.Equal(t, 7, report.Days)
}

func TestBalanceZeroAssignmentsBalanced(t *testing.T) {
	e := NewEvaluator(household(3, 2))

	report, err := e.Balance(date(t, "2025-01-01"), date(t, "2025-01-07"))
	require.NoError(t, err)
	assert.False(t, report.Undefined)
	assert.True(t, report.Balanced)
	assert.Zero(t, report.SpreadHours)
	require.Len(t, report.Persons, 3)
	for _, p := range report.Persons {
		assert.Zero(t, p.TotalMinutes)
		assert.Zero(t, p.TaskCount)
	}
}

func TestBalanceSpreadVerdict(t *testing.T) {
	tests := []struct {
		name         string
		p1Minutes    int
		p2Minutes    int
		wantSpread   float64
		wantBalanced bool
	}{
		{"equal load", 60, 60, 0, true},
		{"spread exactly two hours", 180, 60, 2, true},
		{"spread above two hours", 200, 60, 2.0 + 1.0/3.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := household(2, 0)
			st.tasks = []types.Task{
				{ID: "t1", Name: "Chore A", Duration: tt.p1Minutes, Active: true},
				{ID: "t2", Name: "Chore B", Duration: tt.p2Minutes, Active: true},
			}
			st.assignments = []types.Assignment{
				{ID: "a1", TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
				{ID: "a2", TaskID: "t2", PersonID: "p2", Date: "2025-01-01"},
			}
			e := NewEvaluator(st)

			report, err := e.Balance(date(t, "2025-01-01"), date(t, "2025-01-01"))
			require.NoError(t, err)
			assert.InDelta(t, tt.wantSpread, report.SpreadHours, 1e-9)
			assert.Equal(t, tt.wantBalanced, report.Balanced)
		})
	}
}

func TestBalanceMoreEvenIsNeverWorse(t *testing.T) {
	// Moving minutes from the most loaded to the least loaded person must
	// never flip a balanced report to unbalanced.
	build := func(p1, p2 int) *Evaluator {
		st := household(2, 0)
		st.tasks = []types.Task{
			{ID: "t1", Name: "Chore A", Duration: p1, Active: true},
			{ID: "t2", Name: "Chore B", Duration: p2, Active: true},
		}
		st.assignments = []types.Assignment{
			{ID: "a1", TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
			{ID: "a2", TaskID: "t2", PersonID: "p2", Date: "2025-01-01"},
		}
		return NewEvaluator(st)
	}

	prevSpread := -1.0
	for shift := 0; shift <= 70; shift += 10 {
		report, err := build(200-shift, 60+shift).Balance(date(t, "2025-01-01"), date(t, "2025-01-01"))
		require.NoError(t, err)
		if prevSpread >= 0 {
			assert.LessOrEqual(t, report.SpreadHours, prevSpread)
		}
		prevSpread = report.SpreadHours
	}
}

func TestBalanceAddingToLeastLoadedNeverWidensSpread(t *testing.T) {
	st := household(2, 0)
	st.tasks = []types.Task{
		{ID: "big", Name: "Big chore", Duration: 200, Active: true},
		{ID: "small", Name: "Small chore", Duration: 30, Active: true},
	}
	st.assignments = []types.Assignment{
		{ID: "a1", TaskID: "big", PersonID: "p1", Date: "2025-01-01"},
		{ID: "a2", TaskID: "small", PersonID: "p2", Date: "2025-01-01"},
	}
	e := NewEvaluator(st)

	before, err := e.Balance(date(t, "2025-01-01"), date(t, "2025-01-02"))
	require.NoError(t, err)

	// p2 is the least loaded; give it more work.
	st.assignments = append(st.assignments, types.Assignment{
		ID: "a3", TaskID: "small", PersonID: "p2", Date: "2025-01-02",
	})
	after, err := e.Balance(date(t, "2025-01-01"), date(t, "2025-01-02"))
	require.NoError(t, err)
	assert.LessOrEqual(t, after.SpreadHours, before.SpreadHours)
}

func TestBalanceIgnoresAssignmentsOutsidePeriod(t *testing.T) {
	st := household(1, 0)
	st.tasks = []types.Task{{ID: "t1", Name: "Chore", Duration: 60, Active: true}}
	st.assignments = []types.Assignment{
		{ID: "a1", TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
		{ID: "a2", TaskID: "t1", PersonID: "p1", Date: "2025-02-15"},
	}
	e := NewEvaluator(st)

	report, err := e.Balance(date(t, "2025-01-01"), date(t, "2025-01-31"))
	require.NoError(t, err)
	require.Len(t, report.Persons, 1)
	assert.Equal(t, 60, report.Persons[0].TotalMinutes)
	assert.Equal(t, 1, report.Persons[0].TaskCount)
}

func TestBalanceInvertedRange(t *testing.T) {
	e := NewEvaluator(household(1, 1))
	_, err := e.Balance(date(t, "2025-01-10"), date(t, "2025-01-01"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDistributeThenBalanceEndToEnd(t *testing.T) {
	st := household(2, 0)
	st.tasks = []types.Task{{ID: "t1", Name: "Feed pets", Duration: 10, Frequency: types.FrequencyDaily, Active: true}}
	gen := &fakeGen{fn: func(int, oracle.Request) (*types.Distribution, error) {
		return &types.Distribution{Assignments: []types.ProposedAssignment{
			{TaskID: "t1", PersonID: "p1", Date: "2025-01-01"},
			{TaskID: "t1", PersonID: "p2", Date: "2025-01-02"},
			{TaskID: "t1", PersonID: "p1", Date: "2025-01-03"},
		}}, nil
	}}

	o := NewOrchestrator(st, gen, nil)
	result, err := o.Redistribute(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-03"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.AssignmentsCreated)

	report, err := NewEvaluator(st).Balance(date(t, "2025-01-01"), date(t, "2025-01-03"))
	require.NoError(t, err)
	require.Len(t, report.Persons, 2)

	byID := map[string]PersonStats{}
	for _, p := range report.Persons {
		byID[p.PersonID] = p
	}
	assert.Equal(t, 20, byID["p1"].TotalMinutes)
	assert.Equal(t, 10, byID["p2"].TotalMinutes)
	assert.InDelta(t, 20.0/60.0/3.0, byID["p1"].AvgHoursPerDay, 1e-9)
	assert.InDelta(t, 10.0/60.0/3.0, byID["p2"].AvgHoursPerDay, 1e-9)
	assert.InDelta(t, 10.0/60.0, report.SpreadHours, 1e-9)
	assert.True(t, report.Balanced)
}
