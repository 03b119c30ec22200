package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"choreflow/internal/logging"
	"choreflow/internal/types"
)

// CreateTask validates and inserts a task. A zero Number is replaced with
// the next free sequence number.
func (s *Store) CreateTask(t types.Task) (types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Priority == 0 {
		t.Priority = 3
	}
	if err := t.Validate(); err != nil {
		return types.Task{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Number == 0 {
		var max sql.NullInt64
		if err := s.db.QueryRow(`SELECT MAX(number) FROM tasks`).Scan(&max); err != nil {
			return types.Task{}, fmt.Errorf("failed to determine next task number: %w", err)
		}
		t.Number = int(max.Int64) + 1
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, number, name, duration, frequency, category, area,
		                    requires_daylight, requires_weekend, priority, can_rotate,
		                    preferred_person_id, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Number, t.Name, t.Duration, string(t.Frequency), string(t.Category), t.Area,
		t.RequiresDaylight, t.RequiresWeekend, t.Priority, t.CanRotate,
		nullableString(t.PreferredPersonID), t.Active,
	)
	if err != nil {
		return types.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	logging.Store("created task #%d %s (%s)", t.Number, t.Name, t.ID)
	return t, nil
}

// ListAllTasks returns the full catalog ordered by sequence number.
func (s *Store) ListAllTasks() ([]types.Task, error) {
	return s.listTasks(false)
}

// ListActiveTasks returns only active tasks ordered by sequence number.
func (s *Store) ListActiveTasks() ([]types.Task, error) {
	return s.listTasks(true)
}

func (s *Store) listTasks(activeOnly bool) ([]types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, number, name, duration, frequency, category, area,
	                 requires_daylight, requires_weekend, priority, can_rotate,
	                 preferred_person_id, active
	          FROM tasks`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY number`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var t types.Task
		var area, preferred sql.NullString
		err := rows.Scan(&t.ID, &t.Number, &t.Name, &t.Duration, &t.Frequency, &t.Category, &area,
			&t.RequiresDaylight, &t.RequiresWeekend, &t.Priority, &t.CanRotate, &preferred, &t.Active)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Area = area.String
		t.PreferredPersonID = preferred.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task from the catalog; the cascade removes its
// assignments.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
