package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"choreflow/internal/logging"
	"choreflow/internal/types"
)

// AssignmentFilter narrows FindAssignments. Zero values mean "no filter".
// From/To are inclusive day-granularity dates in types.DateLayout.
type AssignmentFilter struct {
	PersonID string
	From     string
	To       string
}

// CreateAssignment inserts one assignment row. The referenced task and
// person must exist; the schema enforces it even when callers forget to
// pre-validate.
func (s *Store) CreateAssignment(a types.Assignment) (types.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.TaskID == "" || a.PersonID == "" || a.Date == "" {
		return types.Assignment{}, fmt.Errorf("assignment needs taskId, personId, and date")
	}
	if _, err := types.ParseDate(a.Date); err != nil {
		return types.Assignment{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO assignments (id, task_id, person_id, date, completed, completed_at, time_spent, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.PersonID, a.Date, a.Completed, a.CompletedAt, a.TimeSpent, a.Notes,
	)
	if err != nil {
		return types.Assignment{}, fmt.Errorf("failed to insert assignment: %w", err)
	}
	return a, nil
}

// FindAssignments returns assignments matching the filter, each carrying
// the referenced task's duration for workload statistics.
func (s *Store) FindAssignments(filter AssignmentFilter) ([]types.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT a.id, a.task_id, a.person_id, a.date, a.completed, a.completed_at,
	                 a.time_spent, a.notes, COALESCE(t.duration, 0)
	          FROM assignments a
	          LEFT JOIN tasks t ON t.id = a.task_id
	          WHERE 1=1`
	var args []interface{}
	if filter.PersonID != "" {
		query += ` AND a.person_id = ?`
		args = append(args, filter.PersonID)
	}
	if filter.From != "" {
		query += ` AND a.date >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += ` AND a.date <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY a.date, a.person_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find assignments: %w", err)
	}
	defer rows.Close()

	var assignments []types.Assignment
	for rows.Next() {
		var a types.Assignment
		var completedAt sql.NullTime
		var timeSpent sql.NullInt64
		var notes sql.NullString
		err := rows.Scan(&a.ID, &a.TaskID, &a.PersonID, &a.Date, &a.Completed,
			&completedAt, &timeSpent, &notes, &a.TaskDuration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			a.CompletedAt = &t
		}
		if timeSpent.Valid {
			v := int(timeSpent.Int64)
			a.TimeSpent = &v
		}
		a.Notes = notes.String
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// SetAssignmentCompleted toggles the completion flag, stamping the
// completion time and optional actual minutes spent.
func (s *Store) SetAssignmentCompleted(id string, completed bool, timeSpent *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completedAt interface{}
	if completed {
		completedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(
		`UPDATE assignments SET completed = ?, completed_at = ?, time_spent = ? WHERE id = ?`,
		completed, completedAt, timeSpent, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("assignment %s not found", id)
	}
	return nil
}

// DeleteAllAssignments clears the whole schedule.
func (s *Store) DeleteAllAssignments() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM assignments`)
	if err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	n, _ := res.RowsAffected()
	logging.Store("cleared %d assignments", n)
	return nil
}

// DeleteAssignmentsForTask clears the schedule of one task.
func (s *Store) DeleteAssignmentsForTask(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM assignments WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("failed to clear assignments for task %s: %w", taskID, err)
	}
	n, _ := res.RowsAffected()
	logging.Store("cleared %d assignments for task %s", n, taskID)
	return nil
}
