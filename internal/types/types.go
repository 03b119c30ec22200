// Package types defines the core domain entities shared across choreflow:
// persons, recurring tasks, calendar assignments, and the wire shape the
// generation backend returns. Entities mirror the persisted records; they
// carry no behavior beyond validation.
package types

import (
	"fmt"
	"time"
)

// DateLayout is the day-granularity format used everywhere an assignment
// date crosses a boundary (store, prompts, oracle responses).
const DateLayout = "2006-01-02"

// Frequency tags how often a task recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the closed set of frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Category groups tasks by household area. Closed set.
type Category string

const (
	CategoryKitchen     Category = "kitchen"
	CategoryBathroom    Category = "bathroom"
	CategoryBedroom     Category = "bedroom"
	CategoryCommonAreas Category = "common_areas"
	CategoryLaundry     Category = "laundry"
	CategoryGarden      Category = "garden"
	CategoryTerrace     Category = "terrace"
	CategoryGeneral     Category = "general"
)

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryKitchen, CategoryBathroom, CategoryBedroom, CategoryCommonAreas,
		CategoryLaundry, CategoryGarden, CategoryTerrace, CategoryGeneral:
		return true
	}
	return false
}

// Weekdays in schedule order. The week schedule must carry exactly these keys.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DaySchedule describes one weekday for a person. Either the whole day is
// available, or Start/End bound the window during which the person is
// unavailable (working).
type DaySchedule struct {
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty"` // "08:00", unavailable from
	End       string `json:"end,omitempty"`   // "19:00", unavailable until
}

// SpecialConditions holds per-person scheduling constraints.
type SpecialConditions struct {
	LimitedUntil      string `json:"limitedUntil,omitempty"` // day the limitation expires
	MaxHoursPerWeek   *int   `json:"maxHoursPerWeek,omitempty"`
	ShiftWork         bool   `json:"shiftWork"`
	FullTimeAvailable bool   `json:"fullTimeAvailable"`
}

// EmailNotifications records which chore-list cadences a person receives.
// Delivery itself is handled outside the engine.
type EmailNotifications struct {
	Daily   bool   `json:"daily"`
	Weekly  bool   `json:"weekly"`
	Monthly bool   `json:"monthly"`
	Time    string `json:"time"` // "07:00"
}

// Person is a household member eligible for assignments.
type Person struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Email              string                 `json:"email"`
	WeekSchedule       map[string]DaySchedule `json:"workSchedule"`
	SpecialConditions  SpecialConditions      `json:"specialConditions"`
	EmailNotifications EmailNotifications     `json:"emailNotifications"`
	Color              string                 `json:"color,omitempty"`
}

// Validate checks the Person invariants: non-empty name and a week schedule
// with exactly the seven weekdays, each entry either fully available or
// carrying a concrete unavailable window.
func (p *Person) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("person name is required")
	}
	if len(p.WeekSchedule) != len(Weekdays) {
		return fmt.Errorf("week schedule must have exactly %d days, got %d", len(Weekdays), len(p.WeekSchedule))
	}
	for _, day := range Weekdays {
		ds, ok := p.WeekSchedule[day]
		if !ok {
			return fmt.Errorf("week schedule missing %s", day)
		}
		if !ds.Available && (ds.Start == "" || ds.End == "") {
			return fmt.Errorf("week schedule for %s needs a start/end window when not available", day)
		}
	}
	return nil
}

// DefaultWeekSchedule returns the stock schedule: working weekdays with an
// 08:00-19:00 unavailable window, free weekends.
func DefaultWeekSchedule() map[string]DaySchedule {
	ws := make(map[string]DaySchedule, len(Weekdays))
	for _, day := range Weekdays {
		if day == "saturday" || day == "sunday" {
			ws[day] = DaySchedule{Available: true}
			continue
		}
		ws[day] = DaySchedule{Available: false, Start: "08:00", End: "19:00"}
	}
	return ws
}

// Task is one recurring chore in the catalog.
type Task struct {
	ID                string    `json:"id"`
	Number            int       `json:"number"`
	Name              string    `json:"name"`
	Duration          int       `json:"duration"` // minutes
	Frequency         Frequency `json:"frequency"`
	Category          Category  `json:"category"`
	Area              string    `json:"area,omitempty"`
	RequiresDaylight  bool      `json:"requiresDaylight"`
	RequiresWeekend   bool      `json:"requiresWeekend"`
	Priority          int       `json:"priority"` // 1 (low) .. 5 (high)
	CanRotate         bool      `json:"canRotate"`
	PreferredPersonID string    `json:"preferredPersonId,omitempty"`
	Active            bool      `json:"active"`
}

// Validate checks the Task invariants.
func (t *Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Duration <= 0 {
		return fmt.Errorf("task %q duration must be positive, got %d", t.Name, t.Duration)
	}
	if !t.Frequency.Valid() {
		return fmt.Errorf("task %q has unknown frequency %q", t.Name, t.Frequency)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("task %q has unknown category %q", t.Name, t.Category)
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("task %q priority must be in [1,5], got %d", t.Name, t.Priority)
	}
	return nil
}

// Assignment binds one task to one person on one calendar day.
type Assignment struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"taskId"`
	PersonID    string     `json:"personId"`
	Date        string     `json:"date"` // DateLayout
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	TimeSpent   *int       `json:"timeSpent,omitempty"` // actual minutes
	Notes       string     `json:"notes,omitempty"`

	// Duration of the referenced task, populated by store queries that join
	// tasks for statistics. Zero when not loaded.
	TaskDuration int `json:"-"`
}

// ProposedAssignment is one (task, person, date) triple as proposed by the
// oracle. IDs are untrusted until checked against known entities.
type ProposedAssignment struct {
	TaskID   string `json:"taskId"`
	PersonID string `json:"personId"`
	Date     string `json:"date"`
}

// Distribution is the complete output of one oracle call.
type Distribution struct {
	Assignments []ProposedAssignment `json:"assignments"`
}

// ParseDate parses a day-granularity date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
