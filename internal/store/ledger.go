package store

import (
	"fmt"
	"time"

	"pomodo/internal/core"
)

// Completed pomodoros and interruptions are append-only. Nothing in
// this file updates or deletes.

func (s *Store) AppendPomodoro(taskID int64, startedAt, finishedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO pomodoros (task_id, started_at, finished_at) VALUES (?, ?, ?)`,
		taskID, formatTime(startedAt), formatTime(finishedAt),
	)
	if err != nil {
		return fmt.Errorf("append pomodoro: %w", err)
	}
	return nil
}

func (s *Store) PomodorosByTask(taskID int64) ([]core.Pomodoro, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, started_at, finished_at FROM pomodoros WHERE task_id = ? ORDER BY id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pomodoros for task %d: %w", taskID, err)
	}
	defer rows.Close()
	return scanPomodoros(rows)
}

func (s *Store) PomodorosBetween(start, end time.Time) ([]core.Pomodoro, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, started_at, finished_at FROM pomodoros
		 WHERE started_at >= ? AND started_at < ? ORDER BY started_at`,
		formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list pomodoros in range: %w", err)
	}
	defer rows.Close()
	return scanPomodoros(rows)
}

func scanPomodoros(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]core.Pomodoro, error) {
	var poms []core.Pomodoro
	for rows.Next() {
		var p core.Pomodoro
		var startedAt, finishedAt string
		if err := rows.Scan(&p.ID, &p.TaskID, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		p.StartedAt = parseTime(startedAt)
		p.FinishedAt = parseTime(finishedAt)
		poms = append(poms, p)
	}
	return poms, rows.Err()
}

func (s *Store) AppendInterruption(taskID int64, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO interruptions (task_id, created_at) VALUES (?, ?)`,
		taskID, formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("append interruption: %w", err)
	}
	return nil
}

func (s *Store) InterruptionsBetween(start, end time.Time) ([]core.Interruption, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, created_at FROM interruptions
		 WHERE created_at >= ? AND created_at < ? ORDER BY created_at`,
		formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list interruptions in range: %w", err)
	}
	defer rows.Close()

	var ints []core.Interruption
	for rows.Next() {
		var i core.Interruption
		var createdAt string
		if err := rows.Scan(&i.ID, &i.TaskID, &createdAt); err != nil {
			return nil, err
		}
		i.At = parseTime(createdAt)
		ints = append(ints, i)
	}
	return ints, rows.Err()
}
