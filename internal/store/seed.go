package store

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"choreflow/internal/logging"
	"choreflow/internal/types"
)

//go:embed seed_catalog.yaml
var seedCatalog []byte

type seedPerson struct {
	Name              string `yaml:"name"`
	Email             string `yaml:"email"`
	Color             string `yaml:"color"`
	WeekdaysBusy      bool   `yaml:"weekdaysBusy"`
	ShiftWork         bool   `yaml:"shiftWork"`
	FullTimeAvailable bool   `yaml:"fullTimeAvailable"`
}

type seedTask struct {
	Number           int    `yaml:"number"`
	Name             string `yaml:"name"`
	Duration         int    `yaml:"duration"`
	Frequency        string `yaml:"frequency"`
	Category         string `yaml:"category"`
	Area             string `yaml:"area"`
	Priority         int    `yaml:"priority"`
	RequiresDaylight bool   `yaml:"requiresDaylight"`
	RequiresWeekend  bool   `yaml:"requiresWeekend"`
}

type seedFile struct {
	Persons []seedPerson `yaml:"persons"`
	Tasks   []seedTask   `yaml:"tasks"`
}

// SeedResult reports what Seed inserted.
type SeedResult struct {
	PersonsCreated int
	TasksCreated   int
}

// Seed loads the embedded default catalog into an empty database. It
// refuses to run when persons or tasks already exist so it never
// duplicates or clobbers real data.
func (s *Store) Seed() (SeedResult, error) {
	persons, err := s.ListPersons()
	if err != nil {
		return SeedResult{}, err
	}
	tasks, err := s.ListAllTasks()
	if err != nil {
		return SeedResult{}, err
	}
	if len(persons) > 0 || len(tasks) > 0 {
		return SeedResult{}, fmt.Errorf("database already has %d persons and %d tasks, refusing to seed", len(persons), len(tasks))
	}

	var catalog seedFile
	if err := yaml.Unmarshal(seedCatalog, &catalog); err != nil {
		return SeedResult{}, fmt.Errorf("corrupt embedded seed catalog: %w", err)
	}

	var result SeedResult
	for _, sp := range catalog.Persons {
		p := types.Person{
			Name:  sp.Name,
			Email: sp.Email,
			Color: sp.Color,
			SpecialConditions: types.SpecialConditions{
				ShiftWork:         sp.ShiftWork,
				FullTimeAvailable: sp.FullTimeAvailable,
			},
		}
		if sp.WeekdaysBusy {
			p.WeekSchedule = types.DefaultWeekSchedule()
		} else {
			p.WeekSchedule = allAvailableSchedule()
		}
		if _, err := s.CreatePerson(p); err != nil {
			return result, fmt.Errorf("failed to seed person %s: %w", sp.Name, err)
		}
		result.PersonsCreated++
	}

	for _, st := range catalog.Tasks {
		t := types.Task{
			Number:           st.Number,
			Name:             st.Name,
			Duration:         st.Duration,
			Frequency:        types.Frequency(st.Frequency),
			Category:         types.Category(st.Category),
			Area:             st.Area,
			Priority:         st.Priority,
			RequiresDaylight: st.RequiresDaylight,
			RequiresWeekend:  st.RequiresWeekend,
			CanRotate:        true,
			Active:           true,
		}
		if _, err := s.CreateTask(t); err != nil {
			return result, fmt.Errorf("failed to seed task #%d %s: %w", st.Number, st.Name, err)
		}
		result.TasksCreated++
	}

	logging.Store("seeded %d persons and %d tasks", result.PersonsCreated, result.TasksCreated)
	return result, nil
}

func allAvailableSchedule() map[string]types.DaySchedule {
	schedule := make(map[string]types.DaySchedule, len(types.Weekdays))
	for _, day := range types.Weekdays {
		schedule[day] = types.DaySchedule{Available: true}
	}
	return schedule
}
