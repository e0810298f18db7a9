package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pomodo/internal/core"
)

// The timer table holds at most one row with id fixed at 0. The primary
// key makes a second concurrent insert fail rather than coexist.
const timerSlotID = 0

func (s *Store) StartTimer(kind core.TimerKind, label string, startedAt time.Time, durationMin int64) (*core.Timer, error) {
	existing, err := s.CurrentTimer()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, core.ErrTimerRunning
	}

	started := startedAt.UTC().Truncate(time.Second)
	_, err = s.db.Exec(
		`INSERT INTO timer (id, kind, label, started_at, duration_min) VALUES (?, ?, ?, ?, ?)`,
		timerSlotID, int(kind), label, formatTime(started), durationMin,
	)
	if err != nil {
		return nil, fmt.Errorf("start timer: %w", err)
	}
	return &core.Timer{Kind: kind, Label: label, StartedAt: started, DurationMin: durationMin}, nil
}

func (s *Store) CurrentTimer() (*core.Timer, error) {
	var kind int
	var label, startedAt string
	var durationMin int64
	err := s.db.QueryRow(
		`SELECT kind, label, started_at, duration_min FROM timer WHERE id = ?`, timerSlotID,
	).Scan(&kind, &label, &startedAt, &durationMin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timer: %w", err)
	}
	return &core.Timer{
		Kind:        core.TimerKind(kind),
		Label:       label,
		StartedAt:   parseTime(startedAt),
		DurationMin: durationMin,
	}, nil
}

func (s *Store) ClearTimer() error {
	_, err := s.db.Exec(`DELETE FROM timer WHERE id = ?`, timerSlotID)
	if err != nil {
		return fmt.Errorf("clear timer: %w", err)
	}
	return nil
}

func (s *Store) LinkTimerTask(taskID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO timer_task (timer_id, task_id) VALUES (?, ?)`, timerSlotID, taskID,
	)
	if err != nil {
		return fmt.Errorf("link timer task: %w", err)
	}
	return nil
}

func (s *Store) UnlinkTimerTask() error {
	_, err := s.db.Exec(`DELETE FROM timer_task WHERE timer_id = ?`, timerSlotID)
	if err != nil {
		return fmt.Errorf("unlink timer task: %w", err)
	}
	return nil
}

func (s *Store) TimerTaskLink() (*core.TimerTask, error) {
	var taskID int64
	err := s.db.QueryRow(
		`SELECT task_id FROM timer_task WHERE timer_id = ?`, timerSlotID,
	).Scan(&taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timer task: %w", err)
	}
	return &core.TimerTask{TaskID: taskID}, nil
}
