package distribution

import (
	"fmt"
	"time"

	"choreflow/internal/logging"
	"choreflow/internal/store"
	"choreflow/internal/types"
)

// balancedSpreadHours is the tolerance between the most and least loaded
// person below which the schedule counts as balanced.
const balancedSpreadHours = 2.0

// PersonStats is one person's share of the period under evaluation.
type PersonStats struct {
	PersonID         string  `json:"personId"`
	Name             string  `json:"name"`
	TaskCount        int     `json:"taskCount"`
	TotalMinutes     int     `json:"totalMinutes"`
	TotalHours       float64 `json:"totalHours"`
	AvgHoursPerDay   float64 `json:"avgHoursPerDay"`
	AvgMinutesPerDay float64 `json:"avgMinutesPerDay"`
	AvgTasksPerDay   float64 `json:"avgTasksPerDay"`
}

// Report summarizes how evenly work is spread over a period.
type Report struct {
	Start       string        `json:"start"`
	End         string        `json:"end"`
	Days        int           `json:"days"`
	Persons     []PersonStats `json:"persons"`
	MaxHours    float64       `json:"maxHours"`
	MinHours    float64       `json:"minHours"`
	AvgHours    float64       `json:"avgHours"`
	SpreadHours float64       `json:"spreadHours"`
	Balanced    bool          `json:"balanced"`

	// Undefined is set when there are no persons: the spread comparison has
	// nothing to compare and Balanced is meaningless.
	Undefined bool `json:"undefined"`
}

// Evaluator computes balance reports from stored assignments.
type Evaluator struct {
	store EntityStore
}

// NewEvaluator creates an evaluator over the given store.
func NewEvaluator(st EntityStore) *Evaluator {
	return &Evaluator{store: st}
}

// Balance aggregates assignments over the inclusive [start, end] period
// into per-person workloads and a global spread verdict.
func (e *Evaluator) Balance(start, end time.Time) (Report, error) {
	if start.After(end) {
		return Report{}, fmt.Errorf("%w: start date %s is after end date %s",
			ErrValidation, start.Format(types.DateLayout), end.Format(types.DateLayout))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	report := Report{
		Start: start.Format(types.DateLayout),
		End:   end.Format(types.DateLayout),
		Days:  days,
	}

	persons, err := e.store.ListPersons()
	if err != nil {
		return Report{}, err
	}
	if len(persons) == 0 {
		report.Undefined = true
		return report, nil
	}

	assignments, err := e.store.FindAssignments(store.AssignmentFilter{
		From: report.Start,
		To:   report.End,
	})
	if err != nil {
		return Report{}, err
	}

	minutesBy := make(map[string]int, len(persons))
	countBy := make(map[string]int, len(persons))
	for _, a := range assignments {
		minutesBy[a.PersonID] += a.TaskDuration
		countBy[a.PersonID]++
	}

	var totalHours float64
	for i, p := range persons {
		minutes := minutesBy[p.ID]
		hours := float64(minutes) / 60
		stats := PersonStats{
			PersonID:         p.ID,
			Name:             p.Name,
			TaskCount:        countBy[p.ID],
			TotalMinutes:     minutes,
			TotalHours:       hours,
			AvgHoursPerDay:   hours / float64(days),
			AvgMinutesPerDay: float64(minutes) / float64(days),
			AvgTasksPerDay:   float64(countBy[p.ID]) / float64(days),
		}
		report.Persons = append(report.Persons, stats)

		totalHours += hours
		if i == 0 {
			report.MaxHours = hours
			report.MinHours = hours
		} else {
			if hours > report.MaxHours {
				report.MaxHours = hours
			}
			if hours < report.MinHours {
				report.MinHours = hours
			}
		}
	}

	report.AvgHours = totalHours / float64(len(persons))
	report.SpreadHours = report.MaxHours - report.MinHours
	report.Balanced = report.SpreadHours <= balancedSpreadHours

	logging.Balance("period %s..%s: %d persons, spread %.2fh, balanced=%v",
		report.Start, report.End, len(persons), report.SpreadHours, report.Balanced)
	return report, nil
}
