package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pomodo/internal/core"
)

func (s *Store) AddTodo(date core.Date, note string) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO todos (date, note, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		date.String(), note, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert todo %s: %w", date, err)
	}
	return nil
}

func (s *Store) TodoByDate(date core.Date) (*core.TodoDay, error) {
	var note, createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT note, created_at, updated_at FROM todos WHERE date = ?`, date.String(),
	).Scan(&note, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %s: %w", date, err)
	}
	return &core.TodoDay{
		Date:      date,
		Note:      note,
		CreatedAt: parseTime(createdAt),
		UpdatedAt: parseTime(updatedAt),
	}, nil
}

func (s *Store) AssignTask(date core.Date, taskID int64, order int) error {
	_, err := s.db.Exec(
		`INSERT INTO todo_tasks (date, task_id, todo_order) VALUES (?, ?, ?)
		 ON CONFLICT(date, task_id) DO UPDATE SET todo_order = excluded.todo_order`,
		date.String(), taskID, order,
	)
	if err != nil {
		return fmt.Errorf("assign task %d to %s: %w", taskID, date, err)
	}
	return nil
}

func (s *Store) UnassignTask(date core.Date, taskID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM todo_tasks WHERE date = ? AND task_id = ?`, date.String(), taskID,
	)
	if err != nil {
		return fmt.Errorf("unassign task %d from %s: %w", taskID, date, err)
	}
	return nil
}

func (s *Store) NextAssignOrder(date core.Date) (int, error) {
	var next int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(todo_order) + 1, 0) FROM todo_tasks WHERE date = ?`, date.String(),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next assign order for %s: %w", date, err)
	}
	return next, nil
}

// AssignedTasks returns the day's tasks ordered by assignment order.
// Actual counts ledger rows whose started_at falls in [dayStart,
// dayEnd); the caller derives the window from the configured timezone.
func (s *Store) AssignedTasks(date core.Date, dayStart, dayEnd time.Time) ([]core.TodoTask, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.lane_id, t.priority, t.summary, t.estimate,
		        (SELECT COUNT(*) FROM pomodoros p
		          WHERE p.task_id = t.id AND p.started_at >= ? AND p.started_at < ?) AS actual
		 FROM todo_tasks tt
		 JOIN tasks t ON t.id = tt.task_id
		 WHERE tt.date = ?
		 ORDER BY tt.todo_order`,
		formatTime(dayStart), formatTime(dayEnd), date.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list todo tasks for %s: %w", date, err)
	}
	defer rows.Close()

	var tasks []core.TodoTask
	for rows.Next() {
		t := core.TodoTask{Date: date}
		if err := rows.Scan(&t.TaskID, &t.LaneID, &t.Priority, &t.Summary, &t.Estimate, &t.Actual); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
