package core

import (
	"fmt"
	"time"
)

// TimerKind distinguishes work sessions from breaks.
type TimerKind int

const (
	KindPomodoro TimerKind = iota
	KindShortBreak
	KindLongBreak
)

func (k TimerKind) String() string {
	switch k {
	case KindPomodoro:
		return "pomodoro"
	case KindShortBreak:
		return "short break"
	case KindLongBreak:
		return "long break"
	}
	return fmt.Sprintf("TimerKind(%d)", int(k))
}

// IsBreak reports whether k is one of the break kinds.
func (k TimerKind) IsBreak() bool {
	return k == KindShortBreak || k == KindLongBreak
}

// Timer is the single slot holding what is running right now. At most
// one timer exists at any moment; the store enforces this with a fixed
// identity row.
type Timer struct {
	Kind        TimerKind
	Label       string
	StartedAt   time.Time
	DurationMin int64
}

// End returns the instant the timer is due.
func (t *Timer) End() time.Time {
	return t.StartedAt.Add(time.Duration(t.DurationMin) * time.Minute)
}

// TimerTask links the timer slot to the task being worked. Present only
// while a pomodoro-kind timer runs.
type TimerTask struct {
	TaskID int64
}

// CurrentTimer is the active timer joined with its task. Task is nil
// for break timers.
type CurrentTimer struct {
	Timer
	Task *Task
}

// Pomodoro is one completed work session, appended exactly once per
// completed pomodoro timer. Rows are never mutated or deleted.
type Pomodoro struct {
	ID         int64
	TaskID     int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Interruption records a distraction that broke into a session.
// Append-only, read back only by the statistics aggregator.
type Interruption struct {
	ID     int64
	TaskID int64
	At     time.Time
}

// TimerStore is the singleton timer slot capability.
type TimerStore interface {
	// StartTimer fills the slot, failing with ErrTimerRunning when it
	// is already occupied.
	StartTimer(kind TimerKind, label string, startedAt time.Time, durationMin int64) (*Timer, error)
	ClearTimer() error
	// CurrentTimer returns (nil, nil) when the slot is empty.
	CurrentTimer() (*Timer, error)
	LinkTimerTask(taskID int64) error
	UnlinkTimerTask() error
	// TimerTaskLink returns (nil, nil) when no link exists.
	TimerTaskLink() (*TimerTask, error)
}

// PomodoroStore is the completion ledger capability.
type PomodoroStore interface {
	AppendPomodoro(taskID int64, startedAt, finishedAt time.Time) error
	PomodorosByTask(taskID int64) ([]Pomodoro, error)
	PomodorosBetween(start, end time.Time) ([]Pomodoro, error)
}

// InterruptionStore is the interruption ledger capability.
type InterruptionStore interface {
	AppendInterruption(taskID int64, at time.Time) error
	InterruptionsBetween(start, end time.Time) ([]Interruption, error)
}

// StartPomodoro starts a work session for the task. The task's summary
// becomes the timer label and the slot is linked to the task. Fails
// with ErrNotFound when the task is absent and ErrTimerRunning when a
// timer already occupies the slot.
func StartPomodoro(r Repository, taskID, durationMin int64) (*Timer, error) {
	task, err := r.TaskByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	timer, err := r.StartTimer(KindPomodoro, task.Summary, time.Now().UTC(), durationMin)
	if err != nil {
		return nil, err
	}
	if err := r.LinkTimerTask(task.ID); err != nil {
		return nil, err
	}
	return timer, nil
}

// StartBreak starts a short or long break. No task link is created.
func StartBreak(r Repository, kind TimerKind, durationMin int64) (*Timer, error) {
	if !kind.IsBreak() {
		return nil, fmt.Errorf("cannot take a break of kind %s", kind)
	}
	return r.StartTimer(kind, kind.String(), time.Now().UTC(), durationMin)
}

// Complete finishes the given timer and empties the slot. A pomodoro
// appends one completion record for the linked task; breaks leave the
// ledger untouched. A pomodoro without a task link fails with
// ErrNoTimerTask before anything is cleared.
func Complete(r Repository, timer *Timer) error {
	if timer.Kind == KindPomodoro {
		link, err := r.TimerTaskLink()
		if err != nil {
			return err
		}
		if link == nil {
			return fmt.Errorf("complete %s started at %s: %w",
				timer.Kind, timer.StartedAt.Format(time.RFC3339), ErrNoTimerTask)
		}
		if err := r.AppendPomodoro(link.TaskID, timer.StartedAt, time.Now().UTC()); err != nil {
			return err
		}
	}
	if err := r.UnlinkTimerTask(); err != nil {
		return err
	}
	return r.ClearTimer()
}

// Current returns the active timer joined with its linked task, or
// (nil, nil) when the slot is empty. Never mutates state.
func Current(r Repository) (*CurrentTimer, error) {
	timer, err := r.CurrentTimer()
	if err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, nil
	}
	cur := &CurrentTimer{Timer: *timer}
	if timer.Kind != KindPomodoro {
		return cur, nil
	}
	link, err := r.TimerTaskLink()
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, fmt.Errorf("current timer: %w", ErrNoTimerTask)
	}
	task, err := r.TaskByID(link.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("linked task %d: %w", link.TaskID, ErrNotFound)
	}
	cur.Task = task
	return cur, nil
}

// RecordInterruption appends an interruption event for the task.
func RecordInterruption(r Repository, taskID int64) error {
	task, err := r.TaskByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return r.AppendInterruption(task.ID, time.Now().UTC())
}
