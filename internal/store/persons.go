package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"choreflow/internal/logging"
	"choreflow/internal/types"
)

// CreatePerson validates and inserts a person, assigning an ID and the
// default week schedule when missing.
func (s *Store) CreatePerson(p types.Person) (types.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.WeekSchedule == nil {
		p.WeekSchedule = types.DefaultWeekSchedule()
	}
	if err := p.Validate(); err != nil {
		return types.Person{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	schedule, err := json.Marshal(p.WeekSchedule)
	if err != nil {
		return types.Person{}, fmt.Errorf("failed to marshal week schedule: %w", err)
	}
	conditions, err := json.Marshal(p.SpecialConditions)
	if err != nil {
		return types.Person{}, fmt.Errorf("failed to marshal special conditions: %w", err)
	}
	notifications, err := json.Marshal(p.EmailNotifications)
	if err != nil {
		return types.Person{}, fmt.Errorf("failed to marshal notifications: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO persons (id, name, email, week_schedule, special_conditions, email_notifications, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, string(schedule), string(conditions), string(notifications), p.Color,
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("failed to insert person: %w", err)
	}

	logging.Store("created person %s (%s)", p.Name, p.ID)
	return p, nil
}

// GetPerson fetches one person by ID.
func (s *Store) GetPerson(id string) (types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT id, name, email, week_schedule, special_conditions, email_notifications, color
		 FROM persons WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return types.Person{}, fmt.Errorf("person %s not found", id)
	}
	return p, err
}

// ListPersons returns every person, ordered by name.
func (s *Store) ListPersons() ([]types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, name, email, week_schedule, special_conditions, email_notifications, color
		 FROM persons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []types.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// DeletePerson removes a person; the cascade removes their assignments.
func (s *Store) DeletePerson(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("person %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner) (types.Person, error) {
	var p types.Person
	var schedule, conditions, notifications string
	var color sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.Email, &schedule, &conditions, &notifications, &color)
	if err != nil {
		return types.Person{}, err
	}

	if err := json.Unmarshal([]byte(schedule), &p.WeekSchedule); err != nil {
		return types.Person{}, fmt.Errorf("corrupt week schedule for person %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(conditions), &p.SpecialConditions); err != nil {
		return types.Person{}, fmt.Errorf("corrupt special conditions for person %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(notifications), &p.EmailNotifications); err != nil {
		return types.Person{}, fmt.Errorf("corrupt notifications for person %s: %w", p.ID, err)
	}
	p.Color = color.String
	return p, nil
}
