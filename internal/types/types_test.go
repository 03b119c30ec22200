package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Task {
	return Task{
		Name:      "Wash dishes",
		Number:    1,
		Duration:  15,
		Frequency: FrequencyDaily,
		Category:  CategoryKitchen,
		Priority:  3,
		Active:    true,
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Task) {}, wantErr: false},
		{name: "empty name", mutate: func(tk *Task) { tk.Name = "" }, wantErr: true},
		{name: "zero duration", mutate: func(tk *Task) { tk.Duration = 0 }, wantErr: true},
		{name: "negative duration", mutate: func(tk *Task) { tk.Duration = -5 }, wantErr: true},
		{name: "unknown frequency", mutate: func(tk *Task) { tk.Frequency = "yearly" }, wantErr: true},
		{name: "unknown category", mutate: func(tk *Task) { tk.Category = "garage" }, wantErr: true},
		{name: "priority too low", mutate: func(tk *Task) { tk.Priority = 0 }, wantErr: true},
		{name: "priority too high", mutate: func(tk *Task) { tk.Priority = 6 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := validTask()
			tt.mutate(&tk)
			err := tk.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPersonValidate(t *testing.T) {
	p := Person{Name: "Ana", Email: "ana@example.com", WeekSchedule: DefaultWeekSchedule()}
	require.NoError(t, p.Validate())

	t.Run("missing day", func(t *testing.T) {
		q := Person{Name: "Ana", WeekSchedule: DefaultWeekSchedule()}
		delete(q.WeekSchedule, "sunday")
		assert.Error(t, q.Validate())
	})

	t.Run("unavailable without window", func(t *testing.T) {
		q := Person{Name: "Ana", WeekSchedule: DefaultWeekSchedule()}
		q.WeekSchedule["monday"] = DaySchedule{Available: false}
		assert.Error(t, q.Validate())
	})

	t.Run("empty name", func(t *testing.T) {
		q := Person{WeekSchedule: DefaultWeekSchedule()}
		assert.Error(t, q.Validate())
	})
}

func TestDefaultWeekScheduleShape(t *testing.T) {
	ws := DefaultWeekSchedule()
	require.Len(t, ws, 7)
	assert.True(t, ws["saturday"].Available)
	assert.True(t, ws["sunday"].Available)
	assert.False(t, ws["monday"].Available)
	assert.Equal(t, "08:00", ws["monday"].Start)
	assert.Equal(t, "19:00", ws["monday"].End)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	_, err = ParseDate("31/01/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}
