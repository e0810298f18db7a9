package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pomodo/internal/core"
)

const taskColumns = `id, lane_id, priority, summary, estimate, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*core.Task, error) {
	t := &core.Task{}
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.LaneID, &t.Priority, &t.Summary, &t.Estimate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func (s *Store) AddTask(laneID, priorityID int64, summary string, estimate int64) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO tasks (lane_id, priority, summary, estimate, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		laneID, priorityID, summary, estimate, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) TaskByID(id int64) (*core.Task, error) {
	t, err := scanTask(s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) TasksByLane(laneName string) ([]core.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE lane_id = (SELECT id FROM lanes WHERE name = ?)
		 ORDER BY id DESC`, laneName,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []core.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a partial update. Nil fields keep their prior
// value.
func (s *Store) UpdateTask(id int64, laneID, priorityID *int64, summary *string, estimate *int64) error {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	if laneID != nil {
		sets = append(sets, "lane_id = ?")
		args = append(args, *laneID)
	}
	if priorityID != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *priorityID)
	}
	if summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *summary)
	}
	if estimate != nil {
		sets = append(sets, "estimate = ?")
		args = append(args, *estimate)
	}
	args = append(args, id)

	_, err := s.db.Exec(`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return nil
}
